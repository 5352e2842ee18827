package cache

// DecodedAddress is the (tag, index, offset) decomposition of a flat
// address.
type DecodedAddress struct {
	Tag    uint64
	Index  uint64
	Offset uint64
}

// An AddressDecoder splits addresses into tag, set index, and block
// offset for one cache geometry. It is the only component that performs
// bit-width math; everything else treats tags and indices as opaque.
type AddressDecoder struct {
	addressBits int
	offsetBits  int
	indexBits   int
	offsetMask  uint64
	indexMask   uint64
}

// NewAddressDecoder builds a decoder for the given configuration.
func NewAddressDecoder(config Config) (AddressDecoder, error) {
	if err := config.Validate(); err != nil {
		return AddressDecoder{}, err
	}

	offsetBits := config.OffsetBits()
	indexBits := config.IndexBits()

	return AddressDecoder{
		addressBits: config.AddressBits,
		offsetBits:  offsetBits,
		indexBits:   indexBits,
		offsetMask:  uint64(config.BlockSize) - 1,
		indexMask:   uint64(config.NumSets()) - 1,
	}, nil
}

// Decode splits an address. It fails with ErrOutOfRange if the address
// does not fit in the configured width. Decoding has no side effects.
func (d AddressDecoder) Decode(address uint64) (DecodedAddress, error) {
	if d.addressBits < 64 && address >= uint64(1)<<d.addressBits {
		return DecodedAddress{}, outOfRangeError(address, d.addressBits)
	}

	return DecodedAddress{
		Tag:    address >> (d.offsetBits + d.indexBits),
		Index:  (address >> d.offsetBits) & d.indexMask,
		Offset: address & d.offsetMask,
	}, nil
}

// BlockAddress reconstructs the block-aligned address for a tag and set
// index. It is the inverse of Decode with a zero offset.
func (d AddressDecoder) BlockAddress(tag, index uint64) uint64 {
	return tag<<(d.offsetBits+d.indexBits) | index<<d.offsetBits
}
