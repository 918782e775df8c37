package program

import (
	"context"
	"sort"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/internal/interp"
	"github.com/cwbudde/go-basic/pkg/token"
)

// Controller executes a stored program. It walks the line numbers in
// ascending order, asks the evaluator to run each statement, and interprets
// the returned control messages: jumps, subroutine calls and returns, loop
// entry, repetition and skipping, and stops. It owns the GOSUB return stack
// and the per-loop-variable FOR return map.
type Controller struct {
	store *Store
	ev    *interp.Evaluator

	returnStack []int
	returnLoop  map[string]int
	nextStmt    int
}

// NewController creates a controller for the given program and evaluator.
func NewController(s *Store, ev *interp.Evaluator) *Controller {
	return &Controller{
		store:      s,
		ev:         ev,
		returnLoop: make(map[string]int),
	}
}

// ReturnStackDepth reports the number of pending GOSUB returns.
func (c *Controller) ReturnStackDepth() int { return len(c.returnStack) }

// ActiveLoops reports the number of tracked FOR loops.
func (c *Controller) ActiveLoops() int { return len(c.returnLoop) }

// Run executes the program from its first line until it falls off the end,
// executes STOP, or fails. Cancellation of ctx is honored at every
// statement boundary. Variables persist in the evaluator across runs; the
// DATA cursor is rewound when the run starts, and all file handles are
// closed when it ends.
func (c *Controller) Run(ctx context.Context) error {
	lineNums := c.store.LineNumbers()
	if len(lineNums) == 0 {
		return errors.Runtime("No statements to execute", 0)
	}

	c.returnStack = c.returnStack[:0]
	c.returnLoop = make(map[string]int)

	c.ev.BeginRun()
	defer c.ev.EndRun()

	idx := 0
	c.nextStmt = lineNums[idx]

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, ok := c.store.Line(c.nextStmt)
		if !ok {
			return errors.Newf(errors.RuntimeError, 0, "Line number %d does not exist", c.nextStmt)
		}

		msg, err := c.ev.Execute(c.nextStmt, body)
		if err != nil {
			return err
		}
		c.ev.SetLastMsg(msg)

		if msg == nil {
			idx++
			if idx >= len(lineNums) {
				return nil
			}
			c.nextStmt = lineNums[idx]
			continue
		}

		switch msg.Type {
		case interp.MsgSimpleJump:
			idx, err = indexOf(lineNums, msg.Target,
				"Invalid line number supplied in GOTO or conditional branch")
			if err != nil {
				return err
			}

		case interp.MsgGosub:
			if idx+1 >= len(lineNums) {
				return errors.Runtime("GOSUB at end of program, nowhere to return", c.nextStmt)
			}
			c.returnStack = append(c.returnStack, lineNums[idx+1])
			idx, err = indexOf(lineNums, msg.Target,
				"Invalid line number supplied in subroutine call")
			if err != nil {
				return err
			}

		case interp.MsgReturn:
			if len(c.returnStack) == 0 {
				return errors.Runtime("RETURN encountered without matching subroutine call", c.nextStmt)
			}
			target := c.returnStack[len(c.returnStack)-1]
			c.returnStack = c.returnStack[:len(c.returnStack)-1]
			idx, err = indexOf(lineNums, target, "Invalid subroutine return")
			if err != nil {
				return err
			}

		case interp.MsgStop:
			return nil

		case interp.MsgLoopBegin:
			c.returnLoop[msg.LoopVar] = lineNums[idx]
			idx++
			if idx >= len(lineNums) {
				return errors.Runtime("Program terminated within a loop", c.nextStmt)
			}

		case interp.MsgLoopSkip:
			// The loop variable is already past its final value: move past
			// the matching NEXT. Matching on the loop variable skips the
			// NEXTs of nested inner loops.
			idx++
			for idx < len(lineNums) {
				stmt, _ := c.store.Line(lineNums[idx])
				if len(stmt) > 1 && stmt[0].Type == token.NEXT &&
					stmt[1].Literal == msg.LoopVar {
					idx++
					break
				}
				idx++
			}
			if idx >= len(lineNums) {
				return nil
			}

		case interp.MsgLoopRepeat:
			start, ok := c.returnLoop[msg.LoopVar]
			if !ok {
				return errors.Runtime("NEXT encountered without matching FOR loop", c.nextStmt)
			}
			delete(c.returnLoop, msg.LoopVar)
			idx, err = indexOf(lineNums, start, "Invalid loop exit")
			if err != nil {
				return err
			}

		default:
			return errors.Newf(errors.RuntimeError, c.nextStmt,
				"Unexpected control message %s", msg.Type)
		}

		c.nextStmt = lineNums[idx]
	}
}

// indexOf locates a line number in the ordered slice; a miss is a runtime
// error with the given message.
func indexOf(lineNums []int, target int, msg string) (int, error) {
	idx := sort.SearchInts(lineNums, target)
	if idx >= len(lineNums) || lineNums[idx] != target {
		return 0, errors.Newf(errors.RuntimeError, 0, "%s: %d", msg, target)
	}
	return idx, nil
}
