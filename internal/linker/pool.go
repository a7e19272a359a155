package linker

import (
	"strings"

	"apk-recon/internal/javaparser"
)

// ComponentPool stores all parsed classes for type resolution.
type ComponentPool struct {
	// ClassMap: FullClassName -> class
	ClassMap map[string]*javaparser.JavaClass

	order []string
}

// NewComponentPool creates a new empty component pool
func NewComponentPool() *ComponentPool {
	return &ComponentPool{
		ClassMap: make(map[string]*javaparser.JavaClass),
	}
}

// AddJavaClass adds a parsed class. A second class with the same name is
// ignored and reported with false.
func (pool *ComponentPool) AddJavaClass(javaClass *javaparser.JavaClass) bool {
	name := javaClass.FullName()
	if _, exists := pool.ClassMap[name]; exists {
		return false
	}
	pool.ClassMap[name] = javaClass
	pool.order = append(pool.order, name)
	return true
}

// GetClass looks a class up by fully qualified name.
func (pool *ComponentPool) GetClass(fullClassName string) *javaparser.JavaClass {
	return pool.ClassMap[fullClassName]
}

// Classes returns the classes in insertion order.
func (pool *ComponentPool) Classes() []*javaparser.JavaClass {
	out := make([]*javaparser.JavaClass, len(pool.order))
	for i, name := range pool.order {
		out[i] = pool.ClassMap[name]
	}
	return out
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

var javaLang = map[string]bool{
	"String": true, "Object": true, "Integer": true, "Long": true, "Boolean": true,
	"Byte": true, "Short": true, "Character": true, "Float": true, "Double": true,
	"CharSequence": true, "Class": true, "Enum": true, "Number": true, "Void": true,
	"Runnable": true, "Throwable": true, "Exception": true, "RuntimeException": true,
	"StringBuilder": true, "Iterable": true, "Comparable": true,
}

// ResolveType turns a type name as written inside from into a fully
// qualified name. Names that cannot be resolved are qualified with the
// package of from.
func (pool *ComponentPool) ResolveType(from *javaparser.JavaClass, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasSuffix(name, "[]") {
		return pool.ResolveType(from, strings.TrimSuffix(name, "[]")) + "[]"
	}
	if primitives[name] {
		return name
	}

	if i := strings.IndexByte(name, '.'); i >= 0 {
		if _, ok := pool.ClassMap[name]; ok {
			return name
		}
		// Outer.Inner written relative to an import or the package
		head := pool.resolveSimple(from, name[:i])
		if _, ok := pool.ClassMap[head]; ok {
			return head + name[i:]
		}
		return name
	}

	return pool.resolveSimple(from, name)
}

func (pool *ComponentPool) resolveSimple(from *javaparser.JavaClass, name string) string {
	// nested classes visible from the declaring class, innermost first
	scope := append(append([]string(nil), from.Outer...), from.Name)
	for k := len(scope); k > 0; k-- {
		candidate := qualify(from.Package, strings.Join(scope[:k], ".")+"."+name)
		if _, ok := pool.ClassMap[candidate]; ok {
			return candidate
		}
	}

	for _, imp := range from.Imports {
		if strings.HasSuffix(imp, "."+name) {
			return imp
		}
	}

	if candidate := qualify(from.Package, name); pool.ClassMap[candidate] != nil {
		return candidate
	}

	for _, imp := range from.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if candidate := pkg + "." + name; pool.ClassMap[candidate] != nil {
				return candidate
			}
		}
	}

	if javaLang[name] {
		return "java.lang." + name
	}

	return qualify(from.Package, name)
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
