package ot

import (
	"crypto/x509"
	"fmt"

	"github.com/gunnsth/pkcs7"
)

// DSIGTable is the digital signature table. Format 1 signature blocks carry
// a PKCS#7 packet, which is parsed but not verified.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/dsig
type DSIGTable struct {
	tableBase
	Version    uint32
	Flags      uint16
	Signatures []SignatureRecord
}

// SignatureRecord is one signature of table DSIG. Signature holds the PKCS#7
// packet for format 1 blocks if it could be parsed, Err describes why not.
type SignatureRecord struct {
	Format    uint32
	Length    uint32
	Offset    uint32 // from beginning of the DSIG table
	Signature *pkcs7.PKCS7
	Err       error
}

// Certificates returns the certificates embedded in a signature, if any.
func (rec SignatureRecord) Certificates() []*x509.Certificate {
	if rec.Signature == nil {
		return nil
	}
	return rec.Signature.Certificates
}

func newDSIGTable(tag Tag, b binarySegm, offset, size uint32) *DSIGTable {
	t := &DSIGTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

func parseDSIG(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	c := NewCursor(b)
	t := newDSIGTable(tag, b, offset, size)
	if c.Remaining() < 8 {
		ec.addError(tag, "Header", errRange("DSIG header needs 8 bytes, have %d", c.Remaining()), SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.Version, _ = c.ReadU32()
	n, _ := c.ReadU16()
	t.Flags, _ = c.ReadU16()
	if err := c.fits(int(n), 12); err != nil {
		ec.addError(tag, "Records", fmt.Errorf("%d signature records: %w", n, err), SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	t.Signatures = make([]SignatureRecord, n)
	for i := range t.Signatures {
		rec := &t.Signatures[i]
		rec.Format, _ = c.ReadU32()
		rec.Length, _ = c.ReadU32()
		rec.Offset, _ = c.ReadOffset32()
	}
	for i := range t.Signatures {
		rec := &t.Signatures[i]
		rec.Signature, rec.Err = readSignatureBlock(NewCursor(b), *rec)
		if rec.Err != nil {
			ec.addWarning(tag, fmt.Sprintf("signature %d: %v", i, rec.Err), offset)
		}
	}
	return t, nil
}

func readSignatureBlock(c *Cursor, rec SignatureRecord) (*pkcs7.PKCS7, error) {
	if rec.Format != 1 {
		return nil, fmt.Errorf("signature block format %d: %w", rec.Format, ErrUnsupportedFormat)
	}
	c.Seek(int(rec.Offset))
	c.Skip(4) // reserved1, reserved2
	n, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	der, err := c.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	p7, err := pkcs7.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("PKCS#7 signature: %w", err)
	}
	return p7, nil
}
