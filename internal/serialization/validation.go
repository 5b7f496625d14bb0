package serialization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// tensorMeta is the validated location of one tensor in the data section.
type tensorMeta struct {
	name   string
	offset int64
	size   int64
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidTensorName, "empty name")
	case name == metadataKey:
		return errors.Wrapf(ErrInvalidTensorName, "%q is reserved", name)
	case len(name) > MaxNameLen:
		return errors.Wrapf(ErrInvalidTensorName, "name length %d exceeds %d", len(name), MaxNameLen)
	case strings.ContainsRune(name, 0):
		return errors.Wrapf(ErrInvalidTensorName, "%q contains NUL", name)
	}
	return nil
}

func toMeta(name string, h SafeTensorHeader) (tensorMeta, error) {
	if err := validateName(name); err != nil {
		return tensorMeta{}, err
	}
	if h.DType != dtypeF64 {
		return tensorMeta{}, errors.Wrapf(ErrUnsupportedDType, "tensor %q has dtype %s", name, h.DType)
	}
	if len(h.Shape) != 1 || h.Shape[0] < 0 {
		return tensorMeta{}, &ValidationError{
			Type:    "shape",
			Tensor:  name,
			Details: fmt.Sprintf("shape %v is not a lane", h.Shape),
		}
	}

	start, end := h.DataOffsets[0], h.DataOffsets[1]
	if start < 0 || end < start {
		return tensorMeta{}, &ValidationError{
			Type:    "negative_offset",
			Tensor:  name,
			Details: fmt.Sprintf("data_offsets [%d, %d]", start, end),
		}
	}
	if want := h.Shape[0] * elemSize; end-start != want {
		return tensorMeta{}, &ValidationError{
			Type:    "size_mismatch",
			Tensor:  name,
			Details: fmt.Sprintf("%d bytes for %d elements, want %d", end-start, h.Shape[0], want),
		}
	}
	return tensorMeta{name: name, offset: start, size: end - start}, nil
}

// validateOffsets checks for overlapping tensor regions and out-of-bounds access.
func validateOffsets(metas []tensorMeta, dataSize int64) error {
	sorted := make([]tensorMeta, len(metas))
	copy(sorted, metas)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].offset < sorted[j].offset
	})

	for i, t := range sorted {
		if t.offset+t.size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.offset, t.size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if t.offset+t.size > next.offset {
				return &ValidationError{
					Type:    "offset_overlap",
					Tensor:  t.name,
					Tensor2: next.name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						t.offset, t.offset+t.size, next.offset, next.offset+next.size),
				}
			}
		}
	}
	return nil
}
