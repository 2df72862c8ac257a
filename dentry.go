package wfs

import (
	"bytes"
	"fmt"
)

// dentrySize is the fixed on-disk size of a directory entry (§3).
const dentrySize = 32

// dentriesPerBlock is how many Dentry slots fit in one data block.
const dentriesPerBlock = BlockSize / dentrySize

// Dentry associates a name with the inode number it refers to. A slot is
// free when Name[0] == 0 or Num == 0 (§3).
type Dentry struct {
	Name [MaxName]byte
	Num  uint32
}

func init() {
	// MaxName (28) + Num (4) must equal the fixed 32-byte record.
	if MaxName+4 != dentrySize {
		panic("wfs: dentry layout does not add up to 32 bytes")
	}
}

// newDentry builds a Dentry for name/num, failing if name doesn't fit in the
// usable portion of the fixed-length field (§6: "bounded prefix
// comparison").
func newDentry(name string, num uint32) (Dentry, error) {
	var d Dentry
	if len(name) >= MaxName {
		return d, fmt.Errorf("wfs: name %q exceeds maximum length %d", name, MaxName-1)
	}
	copy(d.Name[:], name)
	d.Num = num
	return d, nil
}

// Free reports whether this slot holds no entry.
func (d *Dentry) Free() bool {
	return d.Name[0] == 0 || d.Num == 0
}

// NameString returns the entry's name, truncated at the first NUL.
func (d *Dentry) NameString() string {
	if i := bytes.IndexByte(d.Name[:], 0); i >= 0 {
		return string(d.Name[:i])
	}
	return string(d.Name[:])
}

// matches reports whether this entry's name equals name, bytewise bounded by
// MaxName (§4.4).
func (d *Dentry) matches(name string) bool {
	if len(name) >= MaxName {
		return false
	}
	return d.NameString() == name
}

// MarshalBinary encodes the dentry in its fixed 32-byte layout.
func (d *Dentry) MarshalBinary() ([]byte, error) {
	buf := make([]byte, dentrySize)
	copy(buf, d.Name[:])
	superblockOrder.PutUint32(buf[MaxName:], d.Num)
	return buf, nil
}

// UnmarshalBinary decodes a dentry from its fixed 32-byte layout.
func (d *Dentry) UnmarshalBinary(data []byte) error {
	if len(data) < dentrySize {
		return fmt.Errorf("wfs: dentry record too short (%d < %d)", len(data), dentrySize)
	}
	copy(d.Name[:], data[:MaxName])
	d.Num = superblockOrder.Uint32(data[MaxName:dentrySize])
	return nil
}
