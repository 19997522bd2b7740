//go:build !nojsonsimd

package cli

import (
	"reflect"

	"github.com/bytedance/sonic"
)

// ConfigStd sorts map keys, so reports are stable across runs.
var fastJSON = sonic.ConfigStd

func init() {
	_ = sonic.Pretouch(reflect.TypeFor[OperationReport]())
	_ = sonic.Pretouch(reflect.TypeFor[BatchReport]())
}

func fastJSONMarshal(v any) ([]byte, error) {
	return fastJSON.MarshalIndent(v, "", "  ")
}

func fastJSONUnmarshal(data []byte, v any) error {
	return fastJSON.Unmarshal(data, v)
}
