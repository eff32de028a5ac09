package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/einah-lang/einah/pkg/parser"
)

const DefaultMaxCallDepth = 10000

type Config struct {
	// Stdout receives spit output. Defaults to os.Stdout.
	Stdout io.Writer

	// Natives are declared as constants in the root scope.
	Natives []*NativeFunction

	// MaxCallDepth bounds nested function calls. Zero means
	// DefaultMaxCallDepth.
	MaxCallDepth int
}

func (c *Config) Validate(logger *slog.Logger) error {
	cfgErr := new(ConfigError)

	if c.MaxCallDepth < 0 {
		cfgErr.problemf("max call depth must not be negative, got %d", c.MaxCallDepth)
	}

	seen := make(map[string]struct{})
	for _, native := range c.Natives {
		if native == nil || native.Func == nil {
			cfgErr.problemf("native function is missing an implementation")
			continue
		}

		if native.Arity < 0 {
			cfgErr.problemf("native function %q has negative arity %d", native.Name, native.Arity)
		}

		if _, ok := seen[native.Name]; ok {
			cfgErr.problemf("native function %q registered twice", native.Name)
		}
		seen[native.Name] = struct{}{}
	}

	if len(cfgErr.Problems) > 0 {
		logger.Debug("interpreter config rejected", slog.Int("problems", len(cfgErr.Problems)))
	}

	return cfgErr.orNil()
}

type Interpreter struct {
	logger *slog.Logger
	Config Config

	arena *Arena
	root  Env
	depth int
}

func New(logger *slog.Logger, config Config) (*Interpreter, error) {
	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate interpreter config: %w", err)
	}

	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}

	if config.MaxCallDepth == 0 {
		config.MaxCallDepth = DefaultMaxCallDepth
	}

	arena := NewArena()
	i := &Interpreter{
		logger: logger,
		Config: config,
		arena:  arena,
		root:   arena.NewRoot(),
	}

	for _, native := range config.Natives {
		_, err := i.root.Declare(native.Name, native, true)
		if err != nil {
			return nil, fmt.Errorf("failed to register native %q: %w", native.Name, err)
		}
	}

	logger.Debug("interpreter ready", slog.Int("natives", len(config.Natives)))

	return i, nil
}

// Root returns the scope programs run in. It lives as long as the
// interpreter, so declarations persist across Run calls.
func (i *Interpreter) Root() Env {
	return i.root
}

func (i *Interpreter) Arena() *Arena {
	return i.arena
}

// Run parses src and evaluates it in the root scope.
func (i *Interpreter) Run(ctx context.Context, file string, src string) (Value, error) {
	prog, err := parser.ProduceAST(src)
	if err != nil {
		return nil, FileError{File: file, Err: err}
	}

	i.logger.Debug("program parsed", slog.String("file", file), slog.Int("statements", len(prog.Body)))

	val, err := i.Evaluate(ctx, prog, i.root)
	if err != nil {
		return nil, FileError{File: file, Err: err}
	}

	return val, nil
}

// Evaluate evaluates node in env. A zipback at the top level ends the
// evaluation with its value; skip and shatter outside of a loop are errors.
func (i *Interpreter) Evaluate(ctx context.Context, node parser.Node, env Env) (Value, error) {
	var res Result
	var err error

	switch node := node.(type) {
	case *parser.Program:
		res, err = i.executeStatements(ctx, env, node.Body)
	case parser.Stmt:
		res, err = i.executeStatement(ctx, env, node)
	case parser.Expr:
		var val Value
		val, err = i.executeExpression(ctx, env, node)
		res = evaluated(val)
	default:
		return nil, node.WrapError(fmt.Errorf("unhandled node type: %T", node))
	}

	i.logger.Debug("evaluation finished",
		slog.Int("live_scopes", i.arena.Live()),
		slog.Int("scope_slots", i.arena.Capacity()),
	)

	if err != nil {
		return nil, err
	}

	switch res.Signal {
	case SignalSkip, SignalShatter:
		return nil, fmt.Errorf("%w: %s", ErrLoopSignal, res.Signal)
	}

	if res.Value == nil {
		return Null{}, nil
	}

	return res.Value, nil
}

// executeStatements runs stmts in order in env. A signal stops the sequence
// and is handed to the caller; Skip and Shatter carry the last value
// produced so far.
func (i *Interpreter) executeStatements(ctx context.Context, env Env, stmts []parser.Stmt) (Result, error) {
	var last Value

	for _, stmt := range stmts {
		res, err := i.executeStatement(ctx, env, stmt)
		if err != nil {
			return Result{}, err
		}

		switch res.Signal {
		case SignalNone:
			last = res.Value
		case SignalSkip, SignalShatter:
			if res.Value == nil {
				res.Value = last
			}
			return res, nil
		case SignalReturn:
			return res, nil
		}
	}

	return evaluated(last), nil
}

// executeScoped runs stmts in a fresh child scope of env.
func (i *Interpreter) executeScoped(ctx context.Context, env Env, stmts []parser.Stmt) (Result, error) {
	scope := env.Child()
	defer scope.Release()

	return i.executeStatements(ctx, scope, stmts)
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}

	return v
}

func (i *Interpreter) executeStatement(ctx context.Context, env Env, stmt parser.Stmt) (Result, error) {
	switch stmt := stmt.(type) {
	case *parser.Program:
		return i.executeStatements(ctx, env, stmt.Body)
	case *parser.ExprStatement:
		val, err := i.executeExpression(ctx, env, stmt.Expr)
		if err != nil {
			return Result{}, err
		}

		return evaluated(val), nil
	case *parser.VarDeclaration:
		var val Value = Null{}
		if stmt.Value != nil {
			var err error
			val, err = i.executeExpression(ctx, env, stmt.Value)
			if err != nil {
				return Result{}, err
			}
		}

		val, err := env.Declare(stmt.Name, val, stmt.Constant)
		if err != nil {
			return Result{}, stmt.WrapError(err)
		}

		return evaluated(val), nil
	case *parser.PrintStatement:
		val, err := i.executeExpression(ctx, env, stmt.Argument)
		if err != nil {
			return Result{}, err
		}

		_, err = fmt.Fprintln(i.Config.Stdout, Render(val))
		if err != nil {
			return Result{}, stmt.WrapError(fmt.Errorf("failed to write output: %w", err))
		}

		return evaluated(Null{}), nil
	case *parser.ConditionalStatement:
		return i.executeConditional(ctx, env, stmt)
	case *parser.WhileLoop:
		return i.executeWhileLoop(ctx, env, stmt)
	case *parser.ForLoop:
		return i.executeForLoop(ctx, env, stmt)
	case *parser.ForEachLoop:
		return i.executeForEachLoop(ctx, env, stmt)
	case *parser.SkipStatement:
		return Result{Signal: SignalSkip}, nil
	case *parser.ShatterStatement:
		return Result{Signal: SignalShatter}, nil
	case *parser.ReturnStatement:
		var val Value = Null{}
		if stmt.Argument != nil {
			var err error
			val, err = i.executeExpression(ctx, env, stmt.Argument)
			if err != nil {
				return Result{}, err
			}
		}

		return Result{Value: val, Signal: SignalReturn}, nil
	case *parser.FunctionDeclaration:
		fn := &Function{
			Name:       stmt.Name,
			Parameters: stmt.Parameters,
			Body:       stmt.Body,
			Scope:      env,
		}

		_, err := env.Declare(stmt.Name, fn, true)
		if err != nil {
			return Result{}, stmt.WrapError(err)
		}

		// The function keeps its declaring scope alive. Function values are
		// not tracked once copied around, so this reference is never
		// released and the scope lives until the interpreter is dropped.
		env.Retain()

		return evaluated(fn), nil
	case *parser.BlockStatement:
		res, err := i.executeScoped(ctx, env, stmt.Body)
		if err != nil {
			return Result{}, err
		}

		if res.Signal == SignalNone {
			res.Value = orNull(res.Value)
		}

		return res, nil
	default:
		return Result{}, stmt.WrapError(fmt.Errorf("unhandled statement type: %T", stmt))
	}
}

func (i *Interpreter) executeConditional(ctx context.Context, env Env, stmt *parser.ConditionalStatement) (Result, error) {
	cond, err := i.executeExpression(ctx, env, stmt.Condition)
	if err != nil {
		return Result{}, err
	}

	b, err := i.boolOrFail(cond)
	if err != nil {
		return Result{}, stmt.WrapError(err)
	}

	if b {
		res, err := i.executeScoped(ctx, env, stmt.Then)
		if err != nil {
			return Result{}, err
		}

		if res.Signal == SignalNone {
			res.Value = orNull(res.Value)
		}

		return res, nil
	}

	scope := env.Child()
	defer scope.Release()

	var last Value
	for _, entry := range stmt.Else {
		res, err := i.executeStatement(ctx, scope, entry)
		if err != nil {
			return Result{}, err
		}

		if res.Signal != SignalNone {
			if res.Signal != SignalReturn && res.Value == nil {
				res.Value = last
			}
			return res, nil
		}

		last = res.Value

		// a nested conditional that produced a value ends the else block
		if _, ok := entry.(*parser.ConditionalStatement); ok && !IsNull(orNull(last)) {
			break
		}
	}

	return evaluated(orNull(last)), nil
}

// loopBody runs one iteration and folds its outcome into last. It reports
// whether the loop should stop, along with a Result to hand back when a
// zipback passes through the loop.
func (i *Interpreter) loopBody(ctx context.Context, scope Env, body []parser.Stmt, last *Value) (stop bool, ret *Result, err error) {
	res, err := i.executeStatements(ctx, scope, body)
	if err != nil {
		return true, nil, err
	}

	if res.Value != nil && res.Signal != SignalReturn {
		*last = res.Value
	}

	switch res.Signal {
	case SignalShatter:
		return true, nil, nil
	case SignalReturn:
		return true, &res, nil
	default:
		return false, nil, nil
	}
}

func (i *Interpreter) executeWhileLoop(ctx context.Context, env Env, stmt *parser.WhileLoop) (Result, error) {
	var last Value = Null{}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, stmt.WrapError(err)
		}

		cond, err := i.executeExpression(ctx, env, stmt.Condition)
		if err != nil {
			return Result{}, err
		}

		b, err := i.boolOrFail(cond)
		if err != nil {
			return Result{}, stmt.WrapError(err)
		}

		if !b {
			return evaluated(last), nil
		}

		scope := env.Child()
		stop, ret, err := i.loopBody(ctx, scope, stmt.Body, &last)
		scope.Release()

		if err != nil {
			return Result{}, err
		}

		if ret != nil {
			return *ret, nil
		}

		if stop {
			return evaluated(last), nil
		}
	}
}

func (i *Interpreter) executeForLoop(ctx context.Context, env Env, stmt *parser.ForLoop) (Result, error) {
	startVal, err := i.executeExpression(ctx, env, stmt.Start)
	if err != nil {
		return Result{}, err
	}

	endVal, err := i.executeExpression(ctx, env, stmt.End)
	if err != nil {
		return Result{}, err
	}

	var stepVal Value = Number(1)
	if stmt.Step != nil {
		stepVal, err = i.executeExpression(ctx, env, stmt.Step)
		if err != nil {
			return Result{}, err
		}
	}

	start, err := i.numberOrFail("loop start", startVal)
	if err != nil {
		return Result{}, stmt.WrapError(err)
	}

	end, err := i.numberOrFail("loop end", endVal)
	if err != nil {
		return Result{}, stmt.WrapError(err)
	}

	step, err := i.numberOrFail("loop step", stepVal)
	if err != nil {
		return Result{}, stmt.WrapError(err)
	}

	if step == 0 {
		return Result{}, stmt.WrapError(ErrZeroStep)
	}

	var last Value = Null{}

	// each value is computed from start so fractional steps do not drift
	for k := 0; ; k++ {
		n := start + float64(k)*step
		if (step > 0 && n > end) || (step < 0 && n < end) || math.IsNaN(n) {
			break
		}

		if err := ctx.Err(); err != nil {
			return Result{}, stmt.WrapError(err)
		}

		scope := env.Child()
		_, err := scope.Declare(stmt.Iterator, Number(n), false)
		if err != nil {
			scope.Release()
			return Result{}, stmt.WrapError(err)
		}

		stop, ret, err := i.loopBody(ctx, scope, stmt.Body, &last)
		scope.Release()

		if err != nil {
			return Result{}, err
		}

		if ret != nil {
			return *ret, nil
		}

		if stop {
			break
		}
	}

	return evaluated(last), nil
}

func (i *Interpreter) executeForEachLoop(ctx context.Context, env Env, stmt *parser.ForEachLoop) (Result, error) {
	iterable, err := i.executeExpression(ctx, env, stmt.Iterable)
	if err != nil {
		return Result{}, err
	}

	arr, ok := iterable.(*Array)
	if !ok {
		return Result{}, stmt.WrapError(fmt.Errorf("%w: drift needs an array, got %s", ErrType, iterable.Kind()))
	}

	var last Value = Null{}
	for _, elem := range arr.Elements {
		if err := ctx.Err(); err != nil {
			return Result{}, stmt.WrapError(err)
		}

		scope := env.Child()
		_, err := scope.Declare(stmt.Iterator, elem, false)
		if err != nil {
			scope.Release()
			return Result{}, stmt.WrapError(err)
		}

		stop, ret, err := i.loopBody(ctx, scope, stmt.Body, &last)
		scope.Release()

		if err != nil {
			return Result{}, err
		}

		if ret != nil {
			return *ret, nil
		}

		if stop {
			break
		}
	}

	return evaluated(last), nil
}
