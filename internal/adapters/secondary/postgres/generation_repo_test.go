package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

func TestBuildWhere(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    ports.GenerationFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "no filter",
			filter:    ports.GenerationFilter{},
			wantWhere: "TRUE",
		},
		{
			name:      "query only",
			filter:    ports.GenerationFilter{Query: "dragon"},
			wantWhere: "TRUE AND (user_prompt ILIKE $1 OR enhanced_prompt ILIKE $1 OR tags ILIKE $1)",
			wantArgs:  []interface{}{"%dragon%"},
		},
		{
			name:      "query and since",
			filter:    ports.GenerationFilter{Query: "50%_off", Since: since},
			wantWhere: "TRUE AND (user_prompt ILIKE $1 OR enhanced_prompt ILIKE $1 OR tags ILIKE $1) AND created_at >= $2",
			wantArgs:  []interface{}{`%50\%\_off%`, since},
		},
		{
			name:      "since only",
			filter:    ports.GenerationFilter{Since: since},
			wantWhere: "TRUE AND created_at >= $1",
			wantArgs:  []interface{}{since},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
