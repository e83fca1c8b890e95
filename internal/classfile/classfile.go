// Package classfile reads (and writes a minimal subset of) the JVM class file format.
//
// Only what is needed to resolve a compiled class by name and find its entry
// point is decoded: the constant pool, the class access flags, this and super
// class, and the name, descriptor and flags of every method. Attributes are skipped.
package classfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Magic is the class file magic number.
const Magic = 0xCAFEBABE

// Access flags.
const (
	AccPublic = 0x0001
	AccStatic = 0x0008
)

const (
	// MainMethodName is the entry point method name.
	MainMethodName = "main"
	// MainMethodDescriptor is the entry point method descriptor: takes a String[] and returns void.
	MainMethodDescriptor = "([Ljava/lang/String;)V"
)

// ErrMalformed is returned when the data is not a valid class file.
var ErrMalformed = errors.New("malformed class file")

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Method is a method declared by a class.
type Method struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
}

// IsPublic returns true if the method is public.
func (m Method) IsPublic() bool { return m.AccessFlags&AccPublic != 0 }

// IsStatic returns true if the method is static.
func (m Method) IsStatic() bool { return m.AccessFlags&AccStatic != 0 }

// Class is the decoded part of a class file.
type Class struct {
	MajorVersion uint16
	MinorVersion uint16
	AccessFlags  uint16
	// Name is the binary name of the class using dots as package separator (e.g. `foo.Hello`).
	Name string
	// SuperName is the binary name of the super class, empty only for java.lang.Object itself.
	SuperName string
	Methods   []Method
}

// IsPublic returns true if the class is public.
func (c Class) IsPublic() bool { return c.AccessFlags&AccPublic != 0 }

// FindMethod returns the method with the name and descriptor, if any.
func (c Class) FindMethod(name, descriptor string) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, true
		}
	}
	return Method{}, false
}

// MainMethod returns the `main(String[])` method if the class declares one.
func (c Class) MainMethod() (Method, bool) {
	return c.FindMethod(MainMethodName, MainMethodDescriptor)
}

type cpEntry struct {
	tag  uint8
	utf8 string
	ref  uint16
}

type decoder struct {
	r   *bufio.Reader
	err error
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.err = err
		return nil
	}
	return b
}

func (d *decoder) u1() uint8 {
	b := d.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u2() uint16 {
	b := d.read(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u4() uint32 {
	b := d.read(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) skip(n int64) {
	if d.err != nil {
		return
	}
	if _, err := io.CopyN(io.Discard, d.r, n); err != nil {
		d.err = err
	}
}

func (d *decoder) skipAttributes() {
	count := d.u2()
	for i := 0; i < int(count) && d.err == nil; i++ {
		_ = d.u2() // Name index.
		d.skip(int64(d.u4()))
	}
}

// Parse decodes a class file.
func Parse(r io.Reader) (*Class, error) {
	d := &decoder{r: bufio.NewReader(r)}

	if magic := d.u4(); d.err == nil && magic != Magic {
		return nil, fmt.Errorf("invalid magic 0x%X: %w", magic, ErrMalformed)
	}

	c := &Class{}
	c.MinorVersion = d.u2()
	c.MajorVersion = d.u2()

	pool, err := d.constantPool()
	if err != nil {
		return nil, err
	}

	c.AccessFlags = d.u2()
	thisIdx := d.u2()
	superIdx := d.u2()
	if d.err != nil {
		return nil, fmt.Errorf("could not read class header: %w: %w", ErrMalformed, d.err)
	}

	c.Name, err = pool.className(thisIdx)
	if err != nil {
		return nil, fmt.Errorf("invalid this class: %w", err)
	}
	if superIdx != 0 {
		c.SuperName, err = pool.className(superIdx)
		if err != nil {
			return nil, fmt.Errorf("invalid super class: %w", err)
		}
	}

	// Interfaces.
	d.skip(int64(d.u2()) * 2)

	// Fields.
	fieldCount := d.u2()
	for i := 0; i < int(fieldCount) && d.err == nil; i++ {
		d.skip(6) // Access flags, name and descriptor.
		d.skipAttributes()
	}

	methodCount := d.u2()
	for i := 0; i < int(methodCount) && d.err == nil; i++ {
		flags := d.u2()
		nameIdx := d.u2()
		descIdx := d.u2()
		d.skipAttributes()
		if d.err != nil {
			break
		}

		name, err := pool.utf8(nameIdx)
		if err != nil {
			return nil, fmt.Errorf("invalid method %d name: %w", i, err)
		}
		desc, err := pool.utf8(descIdx)
		if err != nil {
			return nil, fmt.Errorf("invalid method %d descriptor: %w", i, err)
		}
		c.Methods = append(c.Methods, Method{Name: name, Descriptor: desc, AccessFlags: flags})
	}

	d.skipAttributes()
	if d.err != nil {
		return nil, fmt.Errorf("could not read class body: %w: %w", ErrMalformed, d.err)
	}

	return c, nil
}

type constantPool []cpEntry

func (d *decoder) constantPool() (constantPool, error) {
	count := d.u2()
	if d.err != nil {
		return nil, fmt.Errorf("could not read constant pool count: %w: %w", ErrMalformed, d.err)
	}

	// Index 0 is unused.
	pool := make(constantPool, count)
	for i := 1; i < int(count); i++ {
		tag := d.u1()
		e := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			e.utf8 = string(d.read(int(d.u2())))
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.ref = d.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			d.skip(4)
		case tagMethodHandle:
			d.skip(3)
		case tagLong, tagDouble:
			d.skip(8)
			pool[i] = e
			// 8 byte constants take two slots.
			i++
			continue
		default:
			if d.err == nil {
				return nil, fmt.Errorf("unknown constant pool tag %d at %d: %w", tag, i, ErrMalformed)
			}
		}
		if d.err != nil {
			return nil, fmt.Errorf("could not read constant pool entry %d: %w: %w", i, ErrMalformed, d.err)
		}
		pool[i] = e
	}

	return pool, nil
}

func (p constantPool) entry(idx uint16, tag uint8) (cpEntry, error) {
	if idx == 0 || int(idx) >= len(p) {
		return cpEntry{}, fmt.Errorf("constant pool index %d out of range: %w", idx, ErrMalformed)
	}
	e := p[idx]
	if e.tag != tag {
		return cpEntry{}, fmt.Errorf("constant pool index %d has tag %d, expected %d: %w", idx, e.tag, tag, ErrMalformed)
	}
	return e, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	e, err := p.entry(idx, tagUtf8)
	if err != nil {
		return "", err
	}
	return e.utf8, nil
}

func (p constantPool) className(idx uint16) (string, error) {
	e, err := p.entry(idx, tagClass)
	if err != nil {
		return "", err
	}
	name, err := p.utf8(e.ref)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(name, "/", "."), nil
}
