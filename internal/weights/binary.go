package weights

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/ChizhovVadim/nettrainer/internal/domain"
	"github.com/pkg/errors"
)

type Topology struct {
	Inputs        uint32
	Outputs       uint32
	HiddenNeurons []uint32
}

func (t *Topology) LayerSize() int {
	return len(t.HiddenNeurons) + 1
}

// Network is a dense network whose layers are a kernel [inputs x outputs] and a bias [outputs].
type Network struct {
	Id       uint32
	Topology Topology
	Layers   []Layer
}

// NewNetwork checks that layers chain into a dense network and derives its topology.
func NewNetwork(id uint32, layers []Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, errors.New("network has no layers")
	}
	var t Topology
	var prevOutputs int
	for i := range layers {
		var arrays = layers[i].Arrays
		if len(arrays) != 2 || arrays[0].Vector || !arrays[1].Vector {
			return nil, errors.Errorf("layer %v: expected kernel and bias", i)
		}
		var inputs, outputs = arrays[0].Dims()
		if arrays[1].Len() != outputs {
			return nil, errors.Errorf("layer %v: bias size %v, want %v", i, arrays[1].Len(), outputs)
		}
		if i == 0 {
			t.Inputs = uint32(inputs)
		} else if inputs != prevOutputs {
			return nil, errors.Errorf("layer %v: %v inputs, previous layer has %v outputs", i, inputs, prevOutputs)
		}
		if i == len(layers)-1 {
			t.Outputs = uint32(outputs)
		} else {
			t.HiddenNeurons = append(t.HiddenNeurons, uint32(outputs))
		}
		prevOutputs = outputs
	}
	return &Network{
		Id:       id,
		Topology: t,
		Layers:   layers,
	}, nil
}

// Binary layout:
// - All the data is stored in little-endian layout
// - The magic number/version consists of 4 bytes:
//   - 66 (which is the ASCII code for B), uint8
//   - 90 (which is the ASCII code for Z), uint8
//   - 2 The major part of the current version number, uint8
//   - 0 The minor part of the current version number, uint8
//
// - 4 bytes (int32) to denote the network ID
// - 4 bytes (int32) to denote input size
// - 4 bytes (int32) to denote output size
// - 4 bytes (int32) number of hidden layers
// - 4 bytes (int32) for the size of each hidden layer
// - All weights for a layer as float32, kernel row by row, followed by all the biases of the same layer
// - Other layers follow just like the above point
func (n *Network) Write(w io.Writer) error {
	var bw = bufio.NewWriter(w)

	// Write headers
	buf := []byte{66, 90, 2, 0}
	_, err := bw.Write(buf)
	if err != nil {
		return err
	}

	// Write network Id
	binary.LittleEndian.PutUint32(buf, n.Id)
	_, err = bw.Write(buf)
	if err != nil {
		return err
	}

	// Write Topology
	buf = make([]byte, 3*4+4*len(n.Topology.HiddenNeurons))
	binary.LittleEndian.PutUint32(buf[0:], n.Topology.Inputs)
	binary.LittleEndian.PutUint32(buf[4:], n.Topology.Outputs)
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(n.Topology.HiddenNeurons)))
	for i := 0; i < len(n.Topology.HiddenNeurons); i++ {
		binary.LittleEndian.PutUint32(buf[12+4*i:], n.Topology.HiddenNeurons[i])
	}
	_, err = bw.Write(buf)
	if err != nil {
		return err
	}

	for i := range n.Layers {
		for j := range n.Layers[i].Arrays {
			err = writeSlice(bw, n.Layers[i].Arrays[j].Flatten())
			if err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.FileError(path, err)
	}
	defer f.Close()

	if err = n.Write(f); err != nil {
		return domain.FileError(path, err)
	}
	if err = f.Close(); err != nil {
		return domain.FileError(path, err)
	}
	return nil
}

const (
	maxHiddenLayers = 64
	maxLayerSize    = 1 << 16
)

// ReadNetwork reads a network written by Network.Write.
func ReadNetwork(r io.Reader) (*Network, error) {
	var br = bufio.NewReader(r)

	// Read headers
	buf := make([]byte, 4)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, err
	}
	if buf[0] != 66 || buf[1] != 90 {
		return nil, domain.Malformed("binary weights", "magic word does not match")
	}
	if buf[2] != 2 || buf[3] != 0 {
		return nil, domain.Malformed("binary weights", "version %v.%v is not supported", buf[2], buf[3])
	}

	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, err
	}
	id := binary.LittleEndian.Uint32(buf)

	// Read Topology Header
	buf = make([]byte, 12)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, err
	}
	inputs := binary.LittleEndian.Uint32(buf[:4])
	outputs := binary.LittleEndian.Uint32(buf[4:8])
	layers := binary.LittleEndian.Uint32(buf[8:])

	if layers > maxHiddenLayers {
		return nil, domain.Malformed("binary weights", "%v hidden layers", layers)
	}
	buf = make([]byte, 4*int(layers))
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, err
	}
	neurons := make([]uint32, layers)
	for i := range neurons {
		neurons[i] = binary.LittleEndian.Uint32(buf[i*4 : (i+1)*4])
	}

	var net = &Network{
		Id: id,
		Topology: Topology{
			Inputs:        inputs,
			Outputs:       outputs,
			HiddenNeurons: neurons,
		},
		Layers: make([]Layer, len(neurons)+1),
	}

	inputSize := int(inputs)
	for i := range net.Layers {
		var outputSize int
		if i == len(neurons) {
			outputSize = int(outputs)
		} else {
			outputSize = int(neurons[i])
		}
		if inputSize == 0 || outputSize == 0 {
			return nil, domain.Malformed("binary weights", "layer %v has zero size", i)
		}
		if inputSize > maxLayerSize || outputSize > maxLayerSize {
			return nil, domain.Malformed("binary weights", "layer %v size %vx%v is too large", i, inputSize, outputSize)
		}
		kernel, err := readSlice(br, inputSize*outputSize)
		if err != nil {
			return nil, err
		}
		bias, err := readSlice(br, outputSize)
		if err != nil {
			return nil, err
		}
		net.Layers[i].Arrays = []Array{
			NewMatrix("weight", inputSize, outputSize, kernel),
			NewVector("bias", bias),
		}
		inputSize = outputSize
	}
	return net, nil
}

func LoadNetwork(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.FileError(path, err)
	}
	defer f.Close()

	net, err := ReadNetwork(f)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, domain.Malformed(path, "truncated: %v", err)
		}
		return nil, errors.WithMessage(err, path)
	}
	return net, nil
}

func writeSlice(w io.Writer, data []float64) error {
	buf := make([]byte, 4)
	for j := range data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(data[j])))
		_, err := w.Write(buf)
		if err != nil {
			return err
		}
	}
	return nil
}

func readSlice(r io.Reader, size int) ([]float64, error) {
	buf := make([]byte, 4)
	data := make([]float64, size)
	for j := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		data[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	}
	return data, nil
}
