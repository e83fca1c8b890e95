package classfile

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// DefaultMajorVersion is the class file version used by Build (Java 21).
const DefaultMajorVersion = 65

// Spec describes a class to be written by Build.
type Spec struct {
	// Name is the binary name of the class (e.g. `Hello` or `foo.Hello`).
	Name string
	// SuperName defaults to java.lang.Object.
	SuperName string
	// AccessFlags defaults to public.
	AccessFlags  uint16
	MajorVersion uint16
	Methods      []Method
}

// MainMethod returns the entry point method declaration.
func MainMethod() Method {
	return Method{
		Name:        MainMethodName,
		Descriptor:  MainMethodDescriptor,
		AccessFlags: AccPublic | AccStatic,
	}
}

type poolWriter struct {
	buf   bytes.Buffer
	count uint16
	utf8s map[string]uint16
}

func (p *poolWriter) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	p.count++
	p.buf.WriteByte(tagUtf8)
	_ = binary.Write(&p.buf, binary.BigEndian, uint16(len(s)))
	p.buf.WriteString(s)
	p.utf8s[s] = p.count
	return p.count
}

func (p *poolWriter) class(name string) uint16 {
	nameIdx := p.utf8(strings.ReplaceAll(name, ".", "/"))
	p.count++
	p.buf.WriteByte(tagClass)
	_ = binary.Write(&p.buf, binary.BigEndian, nameIdx)
	return p.count
}

// Build writes a structurally valid class file without method bodies. Methods are
// declared but have no Code attribute, the result is meant to be read by Parse,
// not to be run by a JVM.
func Build(spec Spec) []byte {
	if spec.SuperName == "" {
		spec.SuperName = "java.lang.Object"
	}
	if spec.AccessFlags == 0 {
		spec.AccessFlags = AccPublic
	}
	if spec.MajorVersion == 0 {
		spec.MajorVersion = DefaultMajorVersion
	}

	pool := &poolWriter{utf8s: map[string]uint16{}}
	thisIdx := pool.class(spec.Name)
	superIdx := pool.class(spec.SuperName)

	type methodRef struct{ flags, name, desc uint16 }
	methods := make([]methodRef, 0, len(spec.Methods))
	for _, m := range spec.Methods {
		methods = append(methods, methodRef{
			flags: m.AccessFlags,
			name:  pool.utf8(m.Name),
			desc:  pool.utf8(m.Descriptor),
		})
	}

	var out bytes.Buffer
	w := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }

	w(uint32(Magic))
	w(uint16(0))
	w(spec.MajorVersion)
	w(pool.count + 1)
	out.Write(pool.buf.Bytes())
	w(spec.AccessFlags)
	w(thisIdx)
	w(superIdx)
	w(uint16(0)) // Interfaces.
	w(uint16(0)) // Fields.
	w(uint16(len(methods)))
	for _, m := range methods {
		w(m.flags)
		w(m.name)
		w(m.desc)
		w(uint16(0)) // Attributes.
	}
	w(uint16(0)) // Class attributes.

	return out.Bytes()
}
