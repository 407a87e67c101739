package utils

import "testing"

type overlayPayload struct {
	Location string `json:"location"`
	Bedrooms int    `json:"bedrooms"`
}

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    overlayPayload
	}{
		{
			name:  "pure json",
			input: `{"location":"lamai","bedrooms":2}`,
			want:  overlayPayload{Location: "lamai", Bedrooms: 2},
		},
		{
			name:  "markdown json block",
			input: "```json\n{\"location\":\"lamai\",\"bedrooms\":2}\n```",
			want:  overlayPayload{Location: "lamai", Bedrooms: 2},
		},
		{
			name:  "plain markdown block",
			input: "```\n{\"location\":\"maenam\",\"bedrooms\":3}\n```",
			want:  overlayPayload{Location: "maenam", Bedrooms: 3},
		},
		{
			name:  "json inside prose",
			input: `Here is the extraction: {"location":"bophut","bedrooms":1} hope it helps`,
			want:  overlayPayload{Location: "bophut", Bedrooms: 1},
		},
		{
			name:  "braces inside string literal",
			input: `note {"location":"lamai {beach}","bedrooms":2} end`,
			want:  overlayPayload{Location: "lamai {beach}", Bedrooms: 2},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no json at all",
			input:   "sorry, I could not extract anything",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"location":"lamai"`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got overlayPayload
			err := ParseAIJSON(tt.input, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAIJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAIJSON = %+v, want %+v", got, tt.want)
			}
		})
	}
}
