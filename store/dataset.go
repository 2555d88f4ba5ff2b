package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rabbikazmi/HackingDelhi/models"
)

// LoadDataset reads census records from a .json array, a .jsonl stream or a
// .yaml list. Records without a flag are classified on the way in.
func LoadDataset(path string) ([]models.CensusRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var records []models.CensusRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".jsonl", ".ndjson":
		records, err = decodeLines(data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	for i := range records {
		records[i] = NormalizeRecord(records[i])
	}
	return records, nil
}

func decodeLines(data []byte) ([]models.CensusRecord, error) {
	var records []models.CensusRecord
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var r models.CensusRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}
	return records, sc.Err()
}

// WriteDataset writes records in the format implied by the file extension.
func WriteDataset(path string, records []models.CensusRecord) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(records, "", "  ")
	case ".jsonl", ".ndjson":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, r := range records {
			if err = enc.Encode(r); err != nil {
				break
			}
		}
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(records)
	default:
		return fmt.Errorf("unsupported dataset format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
