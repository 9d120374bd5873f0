package dtype

// ByteOrder is the storage byte order of a descriptor.
type ByteOrder uint8

const (
	NativeOrder ByteOrder = iota
	LittleEndian
	BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return "native"
	}
}

// Descriptor is a concrete instance of a descriptor class: a storage layout
// for elements of that class. The default descriptor of a class is a cached
// singleton; additional descriptors (e.g. byte-swapped views) are built with
// NewDescriptor and are not cached.
type Descriptor struct {
	class     *Class
	byteOrder ByteOrder
	itemSize  uint32
	alignment uint32
}

// NewDescriptor builds a non-default descriptor for a class.
func NewDescriptor(class *Class, order ByteOrder, itemSize, alignment uint32) *Descriptor {
	if itemSize == 0 {
		itemSize = class.ItemSize()
	}
	if alignment == 0 {
		alignment = naturalAlignment(itemSize)
	}
	return &Descriptor{
		class:     class,
		byteOrder: order,
		itemSize:  itemSize,
		alignment: alignment,
	}
}

// Class returns the descriptor class this descriptor instantiates.
func (d *Descriptor) Class() *Class { return d.class }

// ByteOrder returns the descriptor's storage byte order.
func (d *Descriptor) ByteOrder() ByteOrder { return d.byteOrder }

// ItemSize returns the size in bytes of one stored element.
func (d *Descriptor) ItemSize() uint32 { return d.itemSize }

// Alignment returns the required alignment in bytes.
func (d *Descriptor) Alignment() uint32 { return d.alignment }

// String returns "class-name (byte-order)" for diagnostics.
func (d *Descriptor) String() string {
	return d.class.Name() + " (" + d.byteOrder.String() + ")"
}
