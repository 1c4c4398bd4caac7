// Package console renders the client's pages on a terminal and reads the
// user's choices line by line.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/wolfman30/mhrs-booking/internal/textsearch"
)

// ErrNoOptions is returned when a choice is offered with nothing to pick.
var ErrNoOptions = errors.New("console: no options to choose from")

// Prompter reads answers from in and writes questions to out. It satisfies
// the Confirmer interfaces of the booking and admin packages.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Out() io.Writer { return p.out }

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Ask prints label and returns the trimmed answer. io.EOF is returned once
// the input is exhausted.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question until it gets an answer it understands.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		answer, err := p.Ask(ctx, prompt+" (e/h)")
		if err != nil {
			return false, err
		}
		switch textsearch.Fold(answer) {
		case "e", "evet", "y", "yes":
			return true, nil
		case "h", "hayır", "hayir", "n", "no":
			return false, nil
		}
		p.Println("Lütfen 'e' veya 'h' girin.")
	}
}

// Choose shows a numbered menu and returns the zero-based index picked.
func (p *Prompter) Choose(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}
	p.printOptions(title, options)
	for {
		answer, err := p.Ask(ctx, "Seçiminiz")
		if err != nil {
			return -1, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		p.Println("Geçersiz seçim.")
	}
}

// Select is Choose with free text: a number picks an option, any other text
// is returned as a search query, and an empty answer returns (-1, "").
func (p *Prompter) Select(ctx context.Context, title string, options []string) (int, string, error) {
	p.printOptions(title, options)
	for {
		answer, err := p.Ask(ctx, "Numara, arama metni veya boş (vazgeç)")
		if err != nil {
			return -1, "", err
		}
		if answer == "" {
			return -1, "", nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil {
			return -1, answer, nil
		}
		if n >= 1 && n <= len(options) {
			return n - 1, "", nil
		}
		p.Println("Geçersiz seçim.")
	}
}

func (p *Prompter) printOptions(title string, options []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if title != "" {
		fmt.Fprintf(p.out, "\n%s\n", title)
	}
	if len(options) == 0 {
		fmt.Fprintln(p.out, "  (kayıt yok)")
	}
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
}
