package serialization

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/lanegrad/internal/lane"
)

// Limits for resource protection when reading untrusted files.
const (
	MaxHeaderSize  = 100 * 1024 * 1024 // 100MB
	MaxTensorCount = 100_000
	MaxNameLen     = 4096
)

const (
	metadataKey = "__metadata__"
	checksumKey = "sha256"
	dtypeF64    = "F64"
	elemSize    = 8
)

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// WriteSafeTensors writes lanes to path as 1-D F64 tensors.
//
// Tensors are written in alphabetical order by name. The metadata map is copied
// into the header together with the checksum of the data section.
func WriteSafeTensors(path string, lanes map[string]lane.Lane, metadata map[string]string) error {
	//nolint:gosec // G304: checkpoint path comes from the caller
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}

	if err := Encode(file, lanes, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}

// Encode writes lanes in SafeTensors format to w.
func Encode(w io.Writer, lanes map[string]lane.Lane, metadata map[string]string) error {
	names := make([]string, 0, len(lanes))
	for name := range lanes {
		if err := validateName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	var data []byte
	for _, name := range names {
		l := lanes[name]
		start := int64(len(data))
		for _, x := range l {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(x))
		}
		header[name] = SafeTensorHeader{
			DType:       dtypeF64,
			Shape:       []int64{int64(len(l))},
			DataOffsets: [2]int64{start, int64(len(data))},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[checksumKey] = ComputeChecksum(data)
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write tensor data")
	}
	return nil
}

// ReadSafeTensors loads every tensor in path as a lane.
func ReadSafeTensors(path string) (map[string]lane.Lane, map[string]string, error) {
	//nolint:gosec // G304: checkpoint path comes from the caller
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		_ = file.Close()
	}()
	return Decode(file)
}

// Decode reads a SafeTensors stream written by Encode or any other writer
// that stores 1-D F64 tensors.
func Decode(r io.Reader) (map[string]lane.Lane, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes, max %d", headerSize, MaxHeaderSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse header")
	}

	var metadata map[string]string
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, errors.Wrap(err, "failed to parse metadata")
		}
		delete(raw, metadataKey)
	}
	if len(raw) > MaxTensorCount {
		return nil, nil, errors.Wrapf(ErrTooManyTensors, "got %d, max %d", len(raw), MaxTensorCount)
	}

	metas := make([]tensorMeta, 0, len(raw))
	for name, msg := range raw {
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to parse tensor %q", name)
		}
		meta, err := toMeta(name, h)
		if err != nil {
			return nil, nil, err
		}
		metas = append(metas, meta)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read tensor data")
	}
	if err := validateOffsets(metas, int64(len(data))); err != nil {
		return nil, nil, err
	}
	if err := ValidateChecksum(data, metadata[checksumKey]); err != nil {
		return nil, nil, err
	}

	lanes := make(map[string]lane.Lane, len(metas))
	for _, m := range metas {
		chunk := data[m.offset : m.offset+m.size]
		l := make(lane.Lane, m.size/elemSize)
		for i := range l {
			l[i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk[i*elemSize:]))
		}
		lanes[m.name] = l
	}
	return lanes, metadata, nil
}
