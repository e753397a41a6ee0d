package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"ticket-booth/pkg/types"
)

// commandPattern matches one script line: a command name followed by a
// parenthesized, comma-separated argument list, e.g. "Reserve(12, 3)".
var commandPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Parser reads command scripts and extracts the operations to run.
type Parser struct{}

// NewParser creates a new script parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads a script file and returns all commands in order.
func (p *Parser) ParseFile(filename string) ([]types.Command, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open script file %s: %w", filename, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads a command script from r and returns all commands in order.
// Blank lines are skipped; malformed lines are logged and skipped rather
// than aborting the run.
func (p *Parser) Parse(r io.Reader) ([]types.Command, error) {
	var commands []types.Command
	scanner := bufio.NewScanner(r)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		m := commandPattern.FindStringSubmatch(line)
		if m == nil {
			log.WithFields(log.Fields{"line": lineNo, "text": line}).Warn("Malformed command line, skipping")
			skipped++
			continue
		}

		cmd := types.Command{Name: m[1], Line: lineNo}
		ok := true
		for _, raw := range strings.Split(m[2], ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			arg, err := strconv.Atoi(raw)
			if err != nil {
				log.WithFields(log.Fields{"line": lineNo, "arg": raw}).Warn("Non-integer argument, skipping line")
				ok = false
				break
			}
			cmd.Args = append(cmd.Args, arg)
		}
		if !ok {
			skipped++
			continue
		}

		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	log.WithFields(log.Fields{
		"lines":    lineNo,
		"commands": len(commands),
		"skipped":  skipped,
	}).Info("Script parsing complete")

	return commands, nil
}

// CountCommands returns a summary of command types found in a script file.
func (p *Parser) CountCommands(filename string) (map[string]int, error) {
	commands, err := p.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, cmd := range commands {
		counts[cmd.Name]++
	}
	return counts, nil
}

// ValidateHasInitialize checks that the script opens with an Initialize
// command; nothing can be reserved before capacity is set.
func (p *Parser) ValidateHasInitialize(commands []types.Command) error {
	for _, cmd := range commands {
		if cmd.Name == "Initialize" {
			return nil
		}
	}
	return fmt.Errorf("script does not contain an Initialize command")
}
