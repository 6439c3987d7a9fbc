package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	Path    string
	Buckets int
}

type sinkConf struct {
	Path    string `json:"path"`
	Buckets int    `json:"buckets"`
}

func newSink(conf map[string]any) (*sink, error) {
	var c sinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sink{Path: c.Path, Buckets: c.Buckets}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("file", newSink))

	inst, err := reg.Create(ModuleConfig{Type: "file", Conf: map[string]any{"path": "out.prom", "buckets": 3}})
	require.NoError(t, err)
	assert.Equal(t, "out.prom", inst.Path)
	assert.Equal(t, 3, inst.Buckets)
}

func TestDecode_WeakTypes(t *testing.T) {
	var c sinkConf
	require.NoError(t, Decode(map[string]any{"buckets": "12"}, &c))
	assert.Equal(t, 12, c.Buckets)
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("y", nil))
	_, err := reg.Create(ModuleConfig{Type: "y"})
	assert.Error(t, err)
	assert.Equal(t, []string{"x"}, reg.Names())
}
