// Package artifact stores the intermediate and final JSON files of a run.
package artifact

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go-campus-harvester/internal/jsonutil"
)

// File names inside the output directory.
const (
	BytedanceRaw   = "bytedance.json"
	AlibabaRaw     = "ali_star.json"
	TencentRaw     = "tencent.json"
	BytedanceClean = "bytedance_clean.json"
	AlibabaClean   = "ali_clean.json"
	TencentClean   = "tencent_clean.json"
)

// Save writes v as indented UTF-8 JSON to dir/name, creating dir when needed.
func Save(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := jsonutil.Encode(&buf, v); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	log.Printf("💾 Saved %s", path)
	return path, nil
}

// Load reads and decodes the JSON document at path.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := jsonutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
