package interpreter

import "gulfofmexico/interpreter-go/pkg/runtime"

// ExportTable hands bindings between the sections of one source file. An
// export addresses a destination section by name; imports in that section
// pick the binding up. Bindings are shared, so a section mutating an
// imported var var is visible to its exporter.
type ExportTable struct {
	sections map[string]map[string]*runtime.Binding
}

func NewExportTable() *ExportTable {
	return &ExportTable{sections: make(map[string]map[string]*runtime.Binding)}
}

func (t *ExportTable) Add(section, name string, b *runtime.Binding) {
	dest, ok := t.sections[section]
	if !ok {
		dest = make(map[string]*runtime.Binding)
		t.sections[section] = dest
	}
	dest[name] = b
}

func (t *ExportTable) Get(section, name string) (*runtime.Binding, bool) {
	dest, ok := t.sections[section]
	if !ok {
		return nil, false
	}
	b, ok := dest[name]
	return b, ok
}
