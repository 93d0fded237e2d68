package dfu

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// Key bag file layout (BER-TLV):
//
//	E1 <len>            key bag template
//	   C1 <len> <blob>  encrypted key blob, repeated, order preserved
const (
	keyBagTag  = "E1"
	keyBlobTag = "C1"
)

// KeyBlob is one encrypted key of the platform key bag.
type KeyBlob []byte

// KeyBag is the ordered list of encrypted platform keys unwrapped during the
// unlock sequence. Its content is opaque to this package.
type KeyBag []KeyBlob

type keyBagFile struct {
	Bag struct {
		Blobs [][]byte `tlv:"C1"`
	} `tlv:"E1"`
}

// ParseKeyBag decodes a key bag file.
func ParseKeyBag(data []byte) (KeyBag, error) {
	var f keyBagFile
	if err := tlv.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse key bag: %w", err)
	}

	bag := make(KeyBag, 0, len(f.Bag.Blobs))
	for _, blob := range f.Bag.Blobs {
		bag = append(bag, KeyBlob(blob))
	}
	if err := bag.Validate(); err != nil {
		return nil, err
	}
	return bag, nil
}

// Validate checks that the bag holds at least one blob and no empty one.
func (b KeyBag) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty key bag", ErrInvalidArgument)
	}
	for i, blob := range b {
		if len(blob) == 0 {
			return fmt.Errorf("%w: key blob %d is empty", ErrInvalidArgument, i)
		}
	}
	return nil
}

// Encode serializes the bag in the key bag file layout.
func (b KeyBag) Encode() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	blobs := make([]bertlv.TLV, 0, len(b))
	for _, blob := range b {
		blobs = append(blobs, bertlv.NewTag(keyBlobTag, blob))
	}
	return bertlv.Encode([]bertlv.TLV{bertlv.NewComposite(keyBagTag, blobs...)})
}

// Len returns the number of blobs.
func (b KeyBag) Len() int {
	return len(b)
}

// Size returns the total size of the blobs in bytes.
func (b KeyBag) Size() int {
	n := 0
	for _, blob := range b {
		n += len(blob)
	}
	return n
}
