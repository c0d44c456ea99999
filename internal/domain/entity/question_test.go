package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeBonus(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		budget    int
		want      int
	}{
		{"instant answer gets the full bonus", 60, 60, 10},
		{"half the time left", 30, 60, 5},
		{"last second", 1, 60, 0}, // 1/60*10 = 0.17 rounds down
		{"twelve seconds used", 48, 60, 8},
		{"no time left", 0, 60, 0},
		{"negative remaining clamps to zero", -5, 60, 0},
		{"remaining above budget clamps to full", 90, 60, 10},
		{"zero budget yields nothing", 30, 0, 0},
		{"rounding up", 57, 60, 10}, // 9.5 rounds to 10
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeBonus(tt.remaining, tt.budget))
		})
	}
}

func TestTimeBonus_Monotonic(t *testing.T) {
	// More time left must never award less bonus.
	prev := 0
	for remaining := 0; remaining <= DefaultQuestionTimeSec; remaining++ {
		bonus := TimeBonus(remaining, DefaultQuestionTimeSec)
		require.GreaterOrEqual(t, bonus, prev, "bonus dropped at remaining=%d", remaining)
		require.LessOrEqual(t, bonus, MaxTimeBonus)
		prev = bonus
	}
}

func TestQuestion_Options(t *testing.T) {
	q := Question{
		Description: "Qual foco ausculta a valva mitral?",
		Options: OptionList{
			{Text: "Foco aortico"},
			{Text: "Foco mitral", Correct: true},
			{Text: "Foco tricuspide"},
		},
	}

	assert.Equal(t, 1, q.CorrectOption())
	assert.True(t, q.IsCorrect(1))
	assert.False(t, q.IsCorrect(0))
	assert.True(t, q.IsValidOption(0))
	assert.True(t, q.IsValidOption(2))
	assert.False(t, q.IsValidOption(3))
	assert.False(t, q.IsValidOption(-1))
}

func TestQuestion_CorrectOption_NoneMarked(t *testing.T) {
	q := Question{Options: OptionList{{Text: "a"}, {Text: "b"}}}
	assert.Equal(t, -1, q.CorrectOption())
}

func TestOptionList_ScanValue(t *testing.T) {
	original := OptionList{
		{Text: "sim", Correct: true},
		{Text: "nao"},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned OptionList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)
}

func TestOptionList_ScanNil(t *testing.T) {
	var list OptionList
	require.NoError(t, list.Scan(nil))
	assert.Empty(t, list)
}

func TestOptionList_ValueEmpty(t *testing.T) {
	value, err := OptionList{}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}
