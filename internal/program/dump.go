package program

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DumpVersion is the schema version written by Save and accepted by Load.
const DumpVersion = 1

type dumpFile struct {
	Version int         `yaml:"version"`
	Classes []dumpClass `yaml:"classes"`
}

type dumpClass struct {
	Name    string       `yaml:"name"`
	Fields  []dumpField  `yaml:"fields,omitempty"`
	Methods []dumpMethod `yaml:"methods,omitempty"`
}

type dumpField struct {
	Name  string     `yaml:"name"`
	Type  string     `yaml:"type"`
	Final bool       `yaml:"final,omitempty"`
	Init  *[]Operand `yaml:"init,omitempty"`
}

type dumpMethod struct {
	Name         string        `yaml:"name"`
	Constructor  bool          `yaml:"constructor,omitempty"`
	Params       []string      `yaml:"params,omitempty"`
	UsedAt       []dumpUsage   `yaml:"used_at,omitempty"`
	Instructions []Instruction `yaml:"instructions,omitempty"`
}

type dumpUsage struct {
	Class  string `yaml:"class"`
	Method string `yaml:"method"`
}

// LoadFile reads a model dump. JSON dumps are accepted as well since JSON is
// valid YAML.
func LoadFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model dump: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Load decodes a model dump.
func Load(r io.Reader) (*Memory, error) {
	var df dumpFile
	if err := yaml.NewDecoder(r).Decode(&df); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty model dump", ErrIncompatibleModel)
		}
		return nil, fmt.Errorf("failed to decode model dump: %w", err)
	}
	if df.Version != DumpVersion {
		return nil, fmt.Errorf("%w: dump version %d, expected %d", ErrIncompatibleModel, df.Version, DumpVersion)
	}

	m := NewMemory()
	for _, dc := range df.Classes {
		if dc.Name == "" {
			return nil, fmt.Errorf("%w: class without a name", ErrIncompatibleModel)
		}
		if _, dup := m.Class(dc.Name); dup {
			return nil, fmt.Errorf("%w: class %s is listed twice", ErrIncompatibleModel, dc.Name)
		}
		m.AddClass(dc.Name)
	}

	for _, dc := range df.Classes {
		c, _ := m.Class(dc.Name)
		for _, fd := range dc.Fields {
			f := c.AddField(fd.Name, fd.Type, fd.Final)
			if fd.Init != nil {
				f.SetInit(*fd.Init...)
			}
		}
		for _, dm := range dc.Methods {
			var mn *MethodNode
			if dm.Constructor {
				mn = c.AddConstructor(dm.Params...)
			} else {
				mn = c.AddMethod(dm.Name, dm.Params...)
			}
			mn.SetInstructions(dm.Instructions...)
			for _, u := range dm.UsedAt {
				owner, ok := m.Class(u.Class)
				if !ok {
					return nil, fmt.Errorf("%w: %s.%s is used from unknown class %s",
						ErrIncompatibleModel, dc.Name, dm.Name, u.Class)
				}
				mn.AddUse(owner, u.Method)
			}
		}
	}

	return m, nil
}

// SaveFile writes m as a YAML dump.
func SaveFile(path string, m Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model dump: %w", err)
	}
	if err := Save(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save encodes any Model as a YAML dump.
func Save(w io.Writer, m Model) error {
	df := dumpFile{Version: DumpVersion}

	for _, c := range m.Classes() {
		dc := dumpClass{Name: c.Name()}
		for _, f := range c.Fields() {
			fd := dumpField{Name: f.Name(), Type: f.Type(), Final: f.IsFinal()}
			if args, ok := f.InitArgs(); ok {
				init := append([]Operand{}, args...)
				fd.Init = &init
			}
			dc.Fields = append(dc.Fields, fd)
		}
		for _, mt := range c.Methods() {
			dm := dumpMethod{
				Name:         mt.Name(),
				Constructor:  mt.IsConstructor(),
				Params:       mt.Parameters(),
				Instructions: mt.Instructions(),
			}
			for _, u := range mt.UsedAt() {
				dm.UsedAt = append(dm.UsedAt, dumpUsage{Class: u.Owner().Name(), Method: u.Method()})
			}
			dc.Methods = append(dc.Methods, dm)
		}
		df.Classes = append(df.Classes, dc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&df); err != nil {
		return fmt.Errorf("failed to encode model dump: %w", err)
	}
	return enc.Close()
}
