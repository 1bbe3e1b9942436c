package contentstreamtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/wudi/pdftable/contentstream"
)

// Processor runs a content stream, tracking the graphics state and handing
// each operation to the handler registered for its operator.
type Processor interface {
	Process(ctx context.Context, stream []byte, state *GraphicsState) error
	RegisterHandler(op string, h OperatorHandler)
}

// OperatorHandler receives an operation after the graphics state has been
// updated for it.
type OperatorHandler interface {
	Handle(ec *ExecutionContext, operands []contentstream.Operand) error
}

// HandlerFunc adapts a function to OperatorHandler.
type HandlerFunc func(ec *ExecutionContext, operands []contentstream.Operand) error

// Handle implements OperatorHandler.
func (f HandlerFunc) Handle(ec *ExecutionContext, operands []contentstream.Operand) error { return f(ec, operands) }

type ExecutionContext struct {
	GraphicsState *GraphicsState
	TextState     *TextState
}

// GraphicsState is the subset of the PDF graphics state the processor
// tracks.
type GraphicsState struct {
	LineWidth   float64
	Dash        []float64
	StrokeColor [3]float64
	FillColor   [3]float64
	// CTM is the current transformation matrix. The zero value means
	// identity.
	CTM   Matrix
	stack []GraphicsState
}

// Matrix returns the current transformation matrix.
func (gs *GraphicsState) Matrix() Matrix {
	if gs.CTM == (Matrix{}) {
		return Identity()
	}
	return gs.CTM
}

// Save pushes a copy of the state.
func (gs *GraphicsState) Save() {
	clone := *gs
	clone.stack = nil
	gs.stack = append(gs.stack, clone)
}

// Restore pops the last saved state.
func (gs *GraphicsState) Restore() error {
	n := len(gs.stack)
	if n == 0 {
		return errors.New("state stack empty")
	}
	stack := gs.stack[:n-1]
	*gs = gs.stack[n-1]
	gs.stack = stack
	return nil
}

// Depth returns the number of saved states.
func (gs *GraphicsState) Depth() int { return len(gs.stack) }

type TextState struct {
	Font     string
	FontSize float64
	InText   bool
}

type simpleProcessor struct{ handlers map[string]OperatorHandler }

// NewProcessor returns a Processor with no handlers.
func NewProcessor() Processor {
	return &simpleProcessor{handlers: make(map[string]OperatorHandler)}
}

func (p *simpleProcessor) RegisterHandler(op string, h OperatorHandler) { p.handlers[op] = h }

func (p *simpleProcessor) Process(ctx context.Context, stream []byte, state *GraphicsState) error {
	ops, err := Parse(stream)
	if err != nil {
		return err
	}
	ec := &ExecutionContext{GraphicsState: state, TextState: &TextState{}}
	for i, op := range ops {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := apply(ec, op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
		if h, ok := p.handlers[op.Operator]; ok {
			if err := h.Handle(ec, op.Operands); err != nil {
				return err
			}
		}
	}
	if state.Depth() != 0 {
		return fmt.Errorf("%w: %d unbalanced q", ErrSyntax, state.Depth())
	}
	if ec.TextState.InText {
		return fmt.Errorf("%w: missing ET", ErrSyntax)
	}
	return nil
}

func apply(ec *ExecutionContext, op contentstream.Operation) error {
	gs, ts := ec.GraphicsState, ec.TextState
	switch op.Operator {
	case "q":
		gs.Save()
	case "Q":
		return gs.Restore()
	case "w":
		v, err := numbers(op.Operands, 1)
		if err != nil {
			return err
		}
		gs.LineWidth = v[0]
	case "RG", "rg":
		v, err := numbers(op.Operands, 3)
		if err != nil {
			return err
		}
		c := [3]float64{v[0], v[1], v[2]}
		if op.Operator == "RG" {
			gs.StrokeColor = c
		} else {
			gs.FillColor = c
		}
	case "cm":
		v, err := numbers(op.Operands, 6)
		if err != nil {
			return err
		}
		gs.CTM = Matrix{v[0], v[1], v[2], v[3], v[4], v[5]}.Multiply(gs.Matrix())
	case "d":
		if len(op.Operands) != 2 {
			return fmt.Errorf("%w: d takes 2 operands", ErrSyntax)
		}
		arr, ok := op.Operands[0].(contentstream.Array)
		if !ok {
			return fmt.Errorf("%w: dash pattern is %s", ErrSyntax, op.Operands[0].Type())
		}
		dash, err := numbers(arr, len(arr))
		if err != nil {
			return err
		}
		gs.Dash = dash
	case "BT":
		if ts.InText {
			return fmt.Errorf("%w: nested BT", ErrSyntax)
		}
		ts.InText = true
	case "ET":
		if !ts.InText {
			return fmt.Errorf("%w: ET without BT", ErrSyntax)
		}
		ts.InText = false
	case "Tf":
		if len(op.Operands) != 2 {
			return fmt.Errorf("%w: Tf takes 2 operands", ErrSyntax)
		}
		name, ok := op.Operands[0].(contentstream.Name)
		size, ok2 := op.Operands[1].(contentstream.Number)
		if !ok || !ok2 {
			return fmt.Errorf("%w: bad Tf operands", ErrSyntax)
		}
		ts.Font, ts.FontSize = string(name), float64(size)
	}
	return nil
}

func numbers(operands []contentstream.Operand, n int) ([]float64, error) {
	if len(operands) != n {
		return nil, fmt.Errorf("%w: want %d operands, got %d", ErrSyntax, n, len(operands))
	}
	out := make([]float64, n)
	for i, o := range operands {
		v, ok := o.(contentstream.Number)
		if !ok {
			return nil, fmt.Errorf("%w: operand %d is %s", ErrSyntax, i, o.Type())
		}
		out[i] = float64(v)
	}
	return out, nil
}
