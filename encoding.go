package pvss

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the protobuf messages:
//
//	message PublicBundle   { repeated bytes commitments = 1; repeated bytes encrypted_shares = 2; BatchDLEQProof proof = 3; }
//	message BatchDLEQProof { bytes c = 1; repeated bytes r = 2; repeated bytes a1 = 3; repeated bytes a2 = 4; }
//	message DecryptedShare { uint64 index = 1; bytes s = 2; DLEQProof proof = 3; }
//	message DLEQProof      { bytes c = 1; bytes r = 2; bytes a1 = 3; bytes a2 = 4; }
const (
	fieldBundleCommitments     protowire.Number = 1
	fieldBundleEncryptedShares protowire.Number = 2
	fieldBundleProof           protowire.Number = 3

	fieldProofC  protowire.Number = 1
	fieldProofR  protowire.Number = 2
	fieldProofA1 protowire.Number = 3
	fieldProofA2 protowire.Number = 4

	fieldShareIndex protowire.Number = 1
	fieldShareS     protowire.Number = 2
	fieldShareProof protowire.Number = 3
)

func appendPointField(b []byte, num protowire.Number, p *ristretto.Point) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, p.Bytes())
}

func appendScalarField(b []byte, num protowire.Number, s *ristretto.Scalar) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, s.Bytes())
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// consumeFields walks a message and hands every field to fn. Unknown fields
// are skipped by returning false from fn.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) (int, bool, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("consumeFields tag: %v: %w", protowire.ParseError(n), ErrInvalidParameters)
		}
		b = b[n:]
		m, handled, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if !handled {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fmt.Errorf("consumeFields field %d: %v: %w", num, protowire.ParseError(m), ErrInvalidParameters)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeBytesField(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("consumeBytesField wire type %d: %w", typ, ErrInvalidParameters)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("consumeBytesField: %v: %w", protowire.ParseError(n), ErrInvalidParameters)
	}
	return v, n, nil
}

func (p *DLEQProof) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var b []byte
	b = appendScalarField(b, fieldProofC, p.C)
	b = appendScalarField(b, fieldProofR, p.R)
	b = appendPointField(b, fieldProofA1, p.A1)
	b = appendPointField(b, fieldProofA2, p.A2)
	return b, nil
}

func (p *DLEQProof) UnmarshalBinary(data []byte) error {
	var proof DLEQProof
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case fieldProofC, fieldProofR, fieldProofA1, fieldProofA2:
		default:
			return 0, false, nil
		}
		v, n, err := consumeBytesField(typ, b)
		if err != nil {
			return 0, false, err
		}
		switch num {
		case fieldProofC:
			proof.C, err = scalarFromBytes(v)
		case fieldProofR:
			proof.R, err = scalarFromBytes(v)
		case fieldProofA1:
			proof.A1, err = pointFromBytes(v)
		case fieldProofA2:
			proof.A2, err = pointFromBytes(v)
		}
		return n, true, err
	})
	if err != nil {
		return err
	}
	if err := proof.Validate(); err != nil {
		return err
	}
	*p = proof
	return nil
}

func (p *BatchDLEQProof) MarshalBinary() ([]byte, error) {
	if err := p.Validate(len(p.RList)); err != nil {
		return nil, err
	}
	var b []byte
	b = appendScalarField(b, fieldProofC, p.C)
	for _, r := range p.RList {
		b = appendScalarField(b, fieldProofR, r)
	}
	for _, a := range p.A1List {
		b = appendPointField(b, fieldProofA1, a)
	}
	for _, a := range p.A2List {
		b = appendPointField(b, fieldProofA2, a)
	}
	return b, nil
}

func (p *BatchDLEQProof) UnmarshalBinary(data []byte) error {
	var proof BatchDLEQProof
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case fieldProofC, fieldProofR, fieldProofA1, fieldProofA2:
		default:
			return 0, false, nil
		}
		v, n, err := consumeBytesField(typ, b)
		if err != nil {
			return 0, false, err
		}
		switch num {
		case fieldProofC:
			proof.C, err = scalarFromBytes(v)
		case fieldProofR:
			var r *ristretto.Scalar
			r, err = scalarFromBytes(v)
			proof.RList = append(proof.RList, r)
		case fieldProofA1:
			var a *ristretto.Point
			a, err = pointFromBytes(v)
			proof.A1List = append(proof.A1List, a)
		case fieldProofA2:
			var a *ristretto.Point
			a, err = pointFromBytes(v)
			proof.A2List = append(proof.A2List, a)
		}
		return n, true, err
	})
	if err != nil {
		return err
	}
	if err := proof.Validate(len(proof.RList)); err != nil {
		return err
	}
	*p = proof
	return nil
}

func (b *PublicBundle) MarshalBinary() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	proof, err := b.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var buf []byte
	for _, c := range b.Commitments {
		buf = appendPointField(buf, fieldBundleCommitments, c)
	}
	for _, y := range b.EncryptedShares {
		buf = appendPointField(buf, fieldBundleEncryptedShares, y)
	}
	return appendMessageField(buf, fieldBundleProof, proof), nil
}

func (b *PublicBundle) UnmarshalBinary(data []byte) error {
	var bundle PublicBundle
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, buf []byte) (int, bool, error) {
		switch num {
		case fieldBundleCommitments, fieldBundleEncryptedShares, fieldBundleProof:
		default:
			return 0, false, nil
		}
		v, n, err := consumeBytesField(typ, buf)
		if err != nil {
			return 0, false, err
		}
		switch num {
		case fieldBundleCommitments:
			var c *ristretto.Point
			c, err = pointFromBytes(v)
			bundle.Commitments = append(bundle.Commitments, c)
		case fieldBundleEncryptedShares:
			var y *ristretto.Point
			y, err = pointFromBytes(v)
			bundle.EncryptedShares = append(bundle.EncryptedShares, y)
		case fieldBundleProof:
			bundle.Proof = new(BatchDLEQProof)
			err = bundle.Proof.UnmarshalBinary(v)
		}
		return n, true, err
	})
	if err != nil {
		return err
	}
	if err := bundle.Validate(); err != nil {
		return err
	}
	*b = bundle
	return nil
}

func (d *DecryptedShare) MarshalBinary() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	proof, err := d.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, fieldShareIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, d.Index)
	b = appendPointField(b, fieldShareS, d.S)
	return appendMessageField(b, fieldShareProof, proof), nil
}

func (d *DecryptedShare) UnmarshalBinary(data []byte) error {
	var share DecryptedShare
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case fieldShareIndex:
			if typ != protowire.VarintType {
				return 0, false, fmt.Errorf("DecryptedShare index wire type %d: %w", typ, ErrInvalidParameters)
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, false, fmt.Errorf("DecryptedShare index: %v: %w", protowire.ParseError(n), ErrInvalidParameters)
			}
			share.Index = v
			return n, true, nil
		case fieldShareS, fieldShareProof:
		default:
			return 0, false, nil
		}
		v, n, err := consumeBytesField(typ, b)
		if err != nil {
			return 0, false, err
		}
		if num == fieldShareS {
			share.S, err = pointFromBytes(v)
		} else {
			share.Proof = new(DLEQProof)
			err = share.Proof.UnmarshalBinary(v)
		}
		return n, true, err
	})
	if err != nil {
		return err
	}
	if err := share.Validate(); err != nil {
		return err
	}
	*d = share
	return nil
}

type bundleJSON struct {
	Commitments     []string       `json:"commitments"`
	EncryptedShares []string       `json:"encrypted_shares"`
	Proof           batchProofJSON `json:"proof"`
}

type batchProofJSON struct {
	C      string   `json:"c"`
	RList  []string `json:"r_list"`
	A1List []string `json:"a1_list"`
	A2List []string `json:"a2_list"`
}

type proofJSON struct {
	C  string `json:"c"`
	R  string `json:"r"`
	A1 string `json:"a1"`
	A2 string `json:"a2"`
}

type decryptedShareJSON struct {
	Index uint64    `json:"index"`
	S     string    `json:"s"`
	Proof proofJSON `json:"proof"`
}

func pointsToHex(points []*ristretto.Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = hex.EncodeToString(p.Bytes())
	}
	return out
}

func scalarsToHex(scalars []*ristretto.Scalar) []string {
	out := make([]string, len(scalars))
	for i, s := range scalars {
		out[i] = hex.EncodeToString(s.Bytes())
	}
	return out
}

func hexToPoints(hs []string) ([]*ristretto.Point, error) {
	out := make([]*ristretto.Point, len(hs))
	for i, h := range hs {
		p, err := hexToPoint(h)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func hexToScalars(hs []string) ([]*ristretto.Scalar, error) {
	out := make([]*ristretto.Scalar, len(hs))
	for i, h := range hs {
		s, err := hexToScalar(h)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (b *PublicBundle) MarshalJSON() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(bundleJSON{
		Commitments:     pointsToHex(b.Commitments),
		EncryptedShares: pointsToHex(b.EncryptedShares),
		Proof: batchProofJSON{
			C:      hex.EncodeToString(b.Proof.C.Bytes()),
			RList:  scalarsToHex(b.Proof.RList),
			A1List: pointsToHex(b.Proof.A1List),
			A2List: pointsToHex(b.Proof.A2List),
		},
	})
}

func (b *PublicBundle) UnmarshalJSON(data []byte) error {
	var raw bundleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var bundle PublicBundle
	var err error
	if bundle.Commitments, err = hexToPoints(raw.Commitments); err != nil {
		return err
	}
	if bundle.EncryptedShares, err = hexToPoints(raw.EncryptedShares); err != nil {
		return err
	}
	proof := &BatchDLEQProof{}
	if proof.C, err = hexToScalar(raw.Proof.C); err != nil {
		return err
	}
	if proof.RList, err = hexToScalars(raw.Proof.RList); err != nil {
		return err
	}
	if proof.A1List, err = hexToPoints(raw.Proof.A1List); err != nil {
		return err
	}
	if proof.A2List, err = hexToPoints(raw.Proof.A2List); err != nil {
		return err
	}
	bundle.Proof = proof
	if err := bundle.Validate(); err != nil {
		return err
	}
	*b = bundle
	return nil
}

func (d *DecryptedShare) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(decryptedShareJSON{
		Index: d.Index,
		S:     hex.EncodeToString(d.S.Bytes()),
		Proof: proofJSON{
			C:  hex.EncodeToString(d.Proof.C.Bytes()),
			R:  hex.EncodeToString(d.Proof.R.Bytes()),
			A1: hex.EncodeToString(d.Proof.A1.Bytes()),
			A2: hex.EncodeToString(d.Proof.A2.Bytes()),
		},
	})
}

func (d *DecryptedShare) UnmarshalJSON(data []byte) error {
	var raw decryptedShareJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	share := DecryptedShare{Index: raw.Index, Proof: &DLEQProof{}}
	var err error
	if share.S, err = hexToPoint(raw.S); err != nil {
		return err
	}
	if share.Proof.C, err = hexToScalar(raw.Proof.C); err != nil {
		return err
	}
	if share.Proof.R, err = hexToScalar(raw.Proof.R); err != nil {
		return err
	}
	if share.Proof.A1, err = hexToPoint(raw.Proof.A1); err != nil {
		return err
	}
	if share.Proof.A2, err = hexToPoint(raw.Proof.A2); err != nil {
		return err
	}
	if err := share.Validate(); err != nil {
		return err
	}
	*d = share
	return nil
}
