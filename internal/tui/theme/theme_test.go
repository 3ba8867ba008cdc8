package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetActive(t *testing.T) {
	t.Cleanup(func() { SetActive(FlexokiDark.Name) })

	assert.True(t, SetActive("tokyo-night"))
	assert.Equal(t, TokyoNight.Name, Active.Name)

	assert.False(t, SetActive("no-such-theme"))
	assert.Equal(t, FlexokiDark.Name, Active.Name)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}, Names())
}

func TestSeriesCycles(t *testing.T) {
	assert.Equal(t, FlexokiDark.Series(0), FlexokiDark.Series(8))
	assert.NotEqual(t, FlexokiDark.Series(0), FlexokiDark.Series(1))
}

func TestThemesDefineEveryRole(t *testing.T) {
	for _, th := range All {
		t.Run(th.Name, func(t *testing.T) {
			roles := map[string]string{
				"surface": string(th.Surface),
				"border":  string(th.Border),
				"text":    string(th.TextPrimary),
				"gain":    string(th.Green),
				"met":     string(th.GreenBright),
				"soon":    string(th.Orange),
				"loss":    string(th.Red),
				"chart":   string(th.Blue),
				"half":    string(th.Yellow),
			}
			for role, c := range roles {
				assert.NotEmpty(t, c, role)
			}
			for i := 0; i < 8; i++ {
				assert.NotEmpty(t, string(th.Series(i)))
			}
		})
	}
}
