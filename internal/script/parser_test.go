package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-booth/pkg/types"
)

func TestParser_Parse_BasicCommands(t *testing.T) {
	input := "Initialize(5)\nReserve(1, 2)\nQuit()\n"
	parser := NewParser()

	commands, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, commands, 3)

	assert.Equal(t, types.Command{Name: "Initialize", Args: []int{5}, Line: 1}, commands[0])
	assert.Equal(t, types.Command{Name: "Reserve", Args: []int{1, 2}, Line: 2}, commands[1])
	assert.Equal(t, types.Command{Name: "Quit", Line: 3}, commands[2])
}

func TestParser_Parse_SkipsBlankLines(t *testing.T) {
	input := "Initialize(5)\n\n   \nAvailable()\n"
	parser := NewParser()

	commands, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "Available", commands[1].Name)
	assert.Equal(t, 4, commands[1].Line)
}

func TestParser_Parse_SkipsMalformedLines(t *testing.T) {
	input := "Initialize(5)\nnot a command\nReserve(1, x)\nReserve(2, 3)\n"
	parser := NewParser()

	commands, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "Initialize", commands[0].Name)
	assert.Equal(t, []int{2, 3}, commands[1].Args)
}

func TestParser_Parse_ToleratesSpacing(t *testing.T) {
	input := "  Reserve( 7 ,  4 )  \n"
	parser := NewParser()

	commands, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, []int{7, 4}, commands[0].Args)
}

func TestParser_Parse_NegativeArguments(t *testing.T) {
	input := "ReleaseSeats(-5, 3)\n"
	parser := NewParser()

	commands, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, []int{-5, 3}, commands[0].Args)
}

func TestParser_ParseFile_Testdata(t *testing.T) {
	parser := NewParser()
	commands, err := parser.ParseFile("testdata/commands.txt")
	require.NoError(t, err)
	assert.Len(t, commands, 11)
	assert.Equal(t, "Initialize", commands[0].Name)
	assert.Equal(t, "Quit", commands[len(commands)-1].Name)
}

func TestParser_ParseFile_Missing(t *testing.T) {
	parser := NewParser()
	_, err := parser.ParseFile("testdata/does-not-exist.txt")
	assert.Error(t, err)
}

func TestParser_CountCommands(t *testing.T) {
	parser := NewParser()
	counts, err := parser.CountCommands("testdata/commands.txt")
	require.NoError(t, err)
	assert.Equal(t, 4, counts["Reserve"])
	assert.Equal(t, 1, counts["Initialize"])
}

func TestParser_ValidateHasInitialize(t *testing.T) {
	parser := NewParser()

	err := parser.ValidateHasInitialize([]types.Command{{Name: "Reserve"}})
	assert.Error(t, err)

	err = parser.ValidateHasInitialize([]types.Command{{Name: "Reserve"}, {Name: "Initialize"}})
	assert.NoError(t, err)
}
