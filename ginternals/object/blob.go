package object

import "github.com/Nivl/gini/ginternals"

// Blob represents the content of a file. The content is stored as it
// is, the name and the permissions of the file are not part of it
type Blob struct {
	rawObject *Object
}

// NewBlob returns a new Blob object from an Object
func NewBlob(o *Object) *Blob {
	return &Blob{
		rawObject: o,
	}
}

// NewBlobFromContent returns a new Blob containing the given data
func NewBlobFromContent(data []byte) *Blob {
	return NewBlob(New(TypeBlob, data))
}

// ID returns the blob's ID
func (b *Blob) ID() ginternals.Oid {
	return b.rawObject.id
}

// Bytes returns the blob's contents.
// The returned slice must not be modified
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// Size returns the size of the blob, in bytes
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// ToObject returns the Blob's underlying Object
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
