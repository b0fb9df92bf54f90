package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将排版结果（绘制树）输出为 JSON，便于调试或快照比较。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := MarshalDebugJSON(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalDebugJSON 返回缩进后的 JSON。
func MarshalDebugJSON(res *Result) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}
