package model

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"google.golang.org/protobuf/encoding/protowire"
)

// #region bundle-layout
// Bundle field numbers. The encoding is protobuf wire format so any protobuf tooling
// can read it with a matching message definition:
//
//	message ParamBundle {
//	  repeated string stages = 1;
//	  repeated double transition = 2; // row-major, 25 values
//	  repeated double start = 3;
//	  repeated double mean = 4;       // row-major, 25 values
//	  repeated double variance = 5;   // row-major, 25 values
//	}
const (
	fieldStages     protowire.Number = 1
	fieldTransition protowire.Number = 2
	fieldStart      protowire.Number = 3
	fieldMean       protowire.Number = 4
	fieldVariance   protowire.Number = 5
)

// #endregion bundle-layout

// #region marshal
// MarshalBundle encodes p into its binary bundle form.
func MarshalBundle(p *Params) []byte {
	var b []byte
	for _, s := range p.stages {
		b = protowire.AppendTag(b, fieldStages, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	b = appendPacked(b, fieldTransition, flattenMatrix(p.transition))
	b = appendPacked(b, fieldStart, p.start[:])
	b = appendPacked(b, fieldMean, flattenMatrix(p.mean))
	b = appendPacked(b, fieldVariance, flattenMatrix(p.variance))
	return b
}

func appendPacked(b []byte, num protowire.Number, vals []float64) []byte {
	payload := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		payload = protowire.AppendFixed64(payload, math.Float64bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func flattenMatrix(m Matrix) []float64 {
	out := make([]float64, 0, NumStates*NumStates)
	for _, row := range m {
		out = append(out, row[:]...)
	}
	return out
}

// #endregion marshal

// #region unmarshal
// UnmarshalBundle decodes a binary bundle and re-validates the parameters.
func UnmarshalBundle(b []byte) (*Params, error) {
	var stages []string
	var transition, start, mean, variance []float64

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("bundle tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		var target *[]float64
		switch num {
		case fieldStages:
			if typ != protowire.BytesType {
				return nil, fmt.Errorf("bundle field %d: unexpected wire type %d", num, typ)
			}
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("bundle stage name: %w", protowire.ParseError(n))
			}
			stages = append(stages, s)
			b = b[n:]
			continue
		case fieldTransition:
			target = &transition
		case fieldStart:
			target = &start
		case fieldMean:
			target = &mean
		case fieldVariance:
			target = &variance
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("bundle unknown field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		n, err := consumeDoubles(num, typ, b, target)
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}

	if len(stages) != NumStates {
		return nil, fmt.Errorf("%w: bundle has %d stages, want %d", ErrInvalidParams, len(stages), NumStates)
	}
	var st [NumStates]string
	copy(st[:], stages)

	tm, err := toMatrix("transition", transition)
	if err != nil {
		return nil, err
	}
	if len(start) != NumStates {
		return nil, fmt.Errorf("%w: bundle start has %d values, want %d", ErrInvalidParams, len(start), NumStates)
	}
	var sv Vector
	copy(sv[:], start)
	mm, err := toMatrix("mean", mean)
	if err != nil {
		return nil, err
	}
	vm, err := toMatrix("variance", variance)
	if err != nil {
		return nil, err
	}

	return NewParams(st, tm, sv, mm, vm)
}

// consumeDoubles accepts both packed and unpacked encodings of a repeated double.
func consumeDoubles(num protowire.Number, typ protowire.Type, b []byte, dst *[]float64) (int, error) {
	switch typ {
	case protowire.Fixed64Type:
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return 0, fmt.Errorf("bundle field %d: %w", num, protowire.ParseError(n))
		}
		*dst = append(*dst, math.Float64frombits(v))
		return n, nil
	case protowire.BytesType:
		payload, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, fmt.Errorf("bundle field %d: %w", num, protowire.ParseError(n))
		}
		if len(payload)%8 != 0 {
			return 0, fmt.Errorf("bundle field %d: packed length %d is not a multiple of 8", num, len(payload))
		}
		for len(payload) > 0 {
			v, m := protowire.ConsumeFixed64(payload)
			if m < 0 {
				return 0, fmt.Errorf("bundle field %d: %w", num, protowire.ParseError(m))
			}
			*dst = append(*dst, math.Float64frombits(v))
			payload = payload[m:]
		}
		return n, nil
	default:
		return 0, fmt.Errorf("bundle field %d: unexpected wire type %d", num, typ)
	}
}

func toMatrix(name string, vals []float64) (Matrix, error) {
	var m Matrix
	if len(vals) != NumStates*NumStates {
		return m, fmt.Errorf("%w: bundle %s has %d values, want %d", ErrInvalidParams, name, len(vals), NumStates*NumStates)
	}
	for i := range m {
		copy(m[i][:], vals[i*NumStates:(i+1)*NumStates])
	}
	return m, nil
}

// #endregion unmarshal

// #region files
// SaveBundle writes p to path atomically, creating the parent directory if needed.
func SaveBundle(path string, p *Params) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".bundle-*")
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(MarshalBundle(p)); err != nil {
		tmp.Close()
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename bundle: %w", err)
	}
	return nil
}

// LoadBundle reads a bundle from path. found is false when the file does not exist.
func LoadBundle(path string) (p *Params, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read bundle %s: %w", path, err)
	}
	p, err = UnmarshalBundle(data)
	if err != nil {
		return nil, true, fmt.Errorf("decode bundle %s: %w", path, err)
	}
	return p, true, nil
}

// LoadOrDefault loads the bundle at path, falling back to DefaultParams when the path
// is empty or the file is absent. A present but malformed bundle is an error.
func LoadOrDefault(path string) (*Params, error) {
	if path != "" {
		p, found, err := LoadBundle(path)
		if err != nil {
			return nil, err
		}
		if found {
			return p, nil
		}
	}
	return DefaultParams()
}

// #endregion files
