// Package prompt collects a square size from a user. It knows nothing about
// how squares are built; callers hand the resolved size to square.Construct.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseSize for input that is not a whole number.
var ErrNotANumber = errors.New("prompt: not a whole number")

// SizeRequester supplies a requested square size. ok is false when the user
// cancelled instead of answering.
type SizeRequester interface {
	RequestSize() (n int, ok bool, err error)
}

// Policy decides which sizes the presenter accepts.
type Policy interface {
	AllowsSize(n int) bool
	SizeChoices() string
}

// ParseSize reads a whole number from text. Float literals are accepted when
// they carry no fractional part, so "7.0" is 7 but "7.5" is rejected.
func ParseSize(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", ErrNotANumber)
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("%w: %q out of range", ErrNotANumber, trimmed)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, trimmed)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q out of range", ErrNotANumber, trimmed)
	}
	return int(f), nil
}

// LineRequester asks for a size on Out and reads answers line by line from
// In. Unparsable lines are reported and asked again.
type LineRequester struct {
	In     io.Reader
	Out    io.Writer
	Prompt string

	scanner *bufio.Scanner
}

// NewLineRequester builds a requester reading from in and writing to out.
func NewLineRequester(in io.Reader, out io.Writer, promptText string) *LineRequester {
	return &LineRequester{In: in, Out: out, Prompt: promptText}
}

// RequestSize implements SizeRequester. End of input, an empty line, "q" and
// "quit" all count as a cancel.
func (r *LineRequester) RequestSize() (int, bool, error) {
	if r.scanner == nil {
		if r.In == nil {
			return 0, false, fmt.Errorf("prompt: no input")
		}
		r.scanner = bufio.NewScanner(r.In)
	}
	for {
		if r.Out != nil && r.Prompt != "" {
			fmt.Fprintf(r.Out, "%s ", r.Prompt)
		}
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return 0, false, fmt.Errorf("prompt: read input: %w", err)
			}
			return 0, false, nil
		}
		line := strings.TrimSpace(r.scanner.Text())
		switch strings.ToLower(line) {
		case "", "q", "quit":
			return 0, false, nil
		}
		n, err := ParseSize(line)
		if err != nil {
			if r.Out != nil {
				fmt.Fprintf(r.Out, "%q is not a whole number.\n", line)
			}
			continue
		}
		return n, true, nil
	}
}

// Resolve asks req until it produces a size the policy allows, telling the
// user which sizes are available after every rejected answer. It reports
// ok == false when the user cancels.
func Resolve(req SizeRequester, policy Policy, notify io.Writer) (int, bool, error) {
	if req == nil {
		return 0, false, fmt.Errorf("prompt: nil requester")
	}
	for {
		n, ok, err := req.RequestSize()
		if err != nil || !ok {
			return 0, false, err
		}
		if policy == nil || policy.AllowsSize(n) {
			return n, true, nil
		}
		if notify != nil {
			fmt.Fprintln(notify, RejectMessage(policy))
		}
	}
}

// RejectMessage is the hint shown after a size the policy does not allow.
func RejectMessage(policy Policy) string {
	return fmt.Sprintf("Please enter one of: %s.", policy.SizeChoices())
}

// Question is the prompt text offering the policy's sizes.
func Question(policy Policy) string {
	return fmt.Sprintf("Enter an odd number (choose one of %s):", policy.SizeChoices())
}
