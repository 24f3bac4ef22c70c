package lisp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	for i, tt := range []struct {
		input   string
		want    Config
		wantErr bool
	}{
		{
			input: "",
			want:  DefaultConfig(),
		},
		{
			input: "max_word: 10\nload_mode: lines\ntrace: true\n",
			want:  Config{MaxWord: 10, MaxLine: 300, MaxFile: 2000, LoadMode: LoadLines, Trace: true},
		},
		{
			input: "max_line: 80\nmax_file: 4096\n",
			want:  Config{MaxWord: DefaultMaxWord, MaxLine: 80, MaxFile: 4096, LoadMode: LoadExpression},
		},
		{
			input:   "max_words: 10\n",
			wantErr: true,
		},
		{
			input:   "load_mode: chunks\n",
			wantErr: true,
		},
		{
			input:   "max_file: -1\n",
			wantErr: true,
		},
		{
			input:   "max_word: [1, 2]\n",
			wantErr: true,
		},
	} {
		got, err := ParseConfig([]byte(tt.input))
		if tt.wantErr {
			if err == nil {
				t.Errorf("%d) got %+v want an error", i, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d) unexpected error %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%d) got %+v want %+v", i, got, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skm.yaml")
	if err := os.WriteFile(path, []byte("max_line: 120\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxLine != 120 || cfg.MaxWord != DefaultMaxWord {
		t.Errorf("got %+v", cfg)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("got no error for a missing file")
	}
}
