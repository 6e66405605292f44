// Package artifact loads the model artifact directory shared with the model
// runtime and the offline fine-tuning job.
//
// Only config.json is read. Weights and tokenizer files are checked for
// presence; the runtime is the one that actually loads them.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
)

// ConfigFile is the name of the model configuration inside the directory
const ConfigFile = "config.json"

var (
	// ErrMissing is returned when the directory or a required file is absent
	ErrMissing = errors.New("model artifact missing")
	// ErrLabelMapping is returned when id2label is not the canonical two-class mapping
	ErrLabelMapping = errors.New("model artifact has unexpected label mapping")
)

var (
	weightFiles    = []string{"model.safetensors", "pytorch_model.bin", "model.safetensors.index.json", "pytorch_model.bin.index.json"}
	tokenizerFiles = []string{"tokenizer.json", "vocab.json"}
)

// Model is the subset of config.json the service depends on
type Model struct {
	Dir          string
	ModelType    string
	Architecture string
	Labels       []entity.Label
	// Fingerprint changes whenever config.json or the weights file changes
	Fingerprint string
}

type modelConfig struct {
	ModelType     string            `json:"model_type"`
	Architectures []string          `json:"architectures"`
	ID2Label      map[string]string `json:"id2label"`
	Label2ID      map[string]int    `json:"label2id"`
}

// Load reads and validates the artifact in dir
func Load(dir string) (*Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissing, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMissing, dir)
	}

	raw, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissing, err)
	}

	var cfg modelConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}

	weights, ok := firstExisting(dir, weightFiles)
	if !ok {
		return nil, fmt.Errorf("%w: no weights in %s", ErrMissing, dir)
	}
	if _, ok := firstExisting(dir, tokenizerFiles); !ok {
		return nil, fmt.Errorf("%w: no tokenizer in %s", ErrMissing, dir)
	}

	labels, err := labelsFromMapping(cfg.ID2Label)
	if err != nil {
		return nil, err
	}
	for name, id := range cfg.Label2ID {
		idx := entity.Label(name).Index()
		if idx < 0 {
			return nil, fmt.Errorf("%w: label2id has unknown label %q", ErrLabelMapping, name)
		}
		if id != idx {
			return nil, fmt.Errorf("%w: label2id[%s]=%d, id2label says %d", ErrLabelMapping, name, id, idx)
		}
	}

	fp, err := fingerprint(raw, weights)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Dir:         dir,
		ModelType:   cfg.ModelType,
		Labels:      labels,
		Fingerprint: fp,
	}
	if len(cfg.Architectures) > 0 {
		m.Architecture = cfg.Architectures[0]
	}
	return m, nil
}

func labelsFromMapping(id2label map[string]string) ([]entity.Label, error) {
	if len(id2label) != len(entity.Labels) {
		return nil, fmt.Errorf("%w: want %d labels, got %d", ErrLabelMapping, len(entity.Labels), len(id2label))
	}

	labels := make([]entity.Label, len(entity.Labels))
	for key, name := range id2label {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(labels) {
			return nil, fmt.Errorf("%w: bad index %q", ErrLabelMapping, key)
		}
		label := entity.Label(name)
		if label != entity.Labels[idx] {
			return nil, fmt.Errorf("%w: id %d is %q, want %q", ErrLabelMapping, idx, name, entity.Labels[idx])
		}
		labels[idx] = label
	}
	return labels, nil
}

// FixLabels rewrites id2label and label2id in dir/config.json to the
// canonical mapping. All other keys are preserved. It reports whether the
// file changed.
func FixLabels(dir string) (bool, error) {
	path := filepath.Join(dir, ConfigFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMissing, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}

	id2label := make(map[string]string, len(entity.Labels))
	label2id := make(map[string]int, len(entity.Labels))
	for i, l := range entity.Labels {
		id2label[strconv.Itoa(i)] = string(l)
		label2id[string(l)] = i
	}

	changed := false
	for key, value := range map[string]any{"id2label": id2label, "label2id": label2id} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return false, err
		}
		if !sameJSON(doc[key], encoded) {
			doc[key] = encoded
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", ConfigFile, err)
	}
	out = append(out, '\n')

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return true, nil
}

// Files lists the artifact files present in dir, sorted
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissing, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func firstExisting(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// fingerprint hashes config.json with the weights file's name, size and
// modification time. Weights are not read.
func fingerprint(config []byte, weightsPath string) (string, error) {
	info, err := os.Stat(weightsPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissing, err)
	}

	h := sha256.New()
	h.Write(config)
	fmt.Fprintf(h, "\x00%s\x00%d\x00%d", filepath.Base(weightsPath), info.Size(), info.ModTime().UnixNano())
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

func sameJSON(a, b []byte) bool {
	if a == nil {
		return false
	}
	var x, y any
	if json.Unmarshal(a, &x) != nil || json.Unmarshal(b, &y) != nil {
		return false
	}
	xa, _ := json.Marshal(x)
	ya, _ := json.Marshal(y)
	return string(xa) == string(ya)
}
