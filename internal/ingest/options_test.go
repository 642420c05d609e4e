package ingest

import (
	"reflect"
	"testing"

	"github.com/quizforge/server/internal/question"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name        string
		optionsJSON string
		headersJSON string
		want        Options
		wantErr     bool
	}{
		{
			name: "empty payload applies defaults",
			want: Options{
				MergeStrategy: question.StrategySkip,
				Strictness:    StrictnessLenient,
			},
		},
		{
			name:        "full payload",
			optionsJSON: `{"mergeStrategy":"overwrite","strictness":"strict","preset":"multiple_choice","owner":"ops","headersMap":{"frage":"question"}}`,
			want: Options{
				MergeStrategy: question.StrategyOverwrite,
				Strictness:    StrictnessStrict,
				HeadersMap:    map[string]string{"frage": "question"},
				Preset:        "multiple_choice",
				Owner:         "ops",
			},
		},
		{
			name:        "top-level headersMap merges over options",
			optionsJSON: `{"headersMap":{"frage":"question","antwort":"answer"}}`,
			headersJSON: `{"antwort":"correct_answer"}`,
			want: Options{
				MergeStrategy: question.StrategySkip,
				Strictness:    StrictnessLenient,
				HeadersMap:    map[string]string{"frage": "question", "antwort": "correct_answer"},
			},
		},
		{
			name:        "top-level headersMap alone",
			headersJSON: `{"frage":"question"}`,
			want: Options{
				MergeStrategy: question.StrategySkip,
				Strictness:    StrictnessLenient,
				HeadersMap:    map[string]string{"frage": "question"},
			},
		},
		{
			name:        "unknown strategy rejected",
			optionsJSON: `{"mergeStrategy":"merge"}`,
			wantErr:     true,
		},
		{
			name:        "unknown strictness rejected",
			optionsJSON: `{"strictness":"pedantic"}`,
			wantErr:     true,
		},
		{
			name:        "malformed options json rejected",
			optionsJSON: `{`,
			wantErr:     true,
		},
		{
			name:        "malformed headersMap json rejected",
			headersJSON: `[1,2]`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions([]byte(tt.optionsJSON), []byte(tt.headersJSON))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseStrictness(t *testing.T) {
	if s, err := ParseStrictness(""); err != nil || s != StrictnessLenient {
		t.Errorf("ParseStrictness(\"\") = (%q, %v), want lenient", s, err)
	}
	if _, err := ParseStrictness("loose"); err == nil {
		t.Error("ParseStrictness(\"loose\") error = nil, want error")
	}
}
