package proclang

import (
	"math"
	"os"
	"strconv"
	"strings"
)

// Parse compiles ProcLang source text into a ProcedureSuite.
func Parse(text string) (*ProcedureSuite, error) {
	p := newParser(text)
	return p.parseDocument()
}

// ParseFile reads and compiles the ProcLang document at path.
func ParseFile(path string) (*ProcedureSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, badInput("reading %q: %v", path, err)
	}
	return Parse(string(data))
}

type parser struct {
	lex *lexer
	tok token
}

func newParser(src string) *parser {
	p := &parser{lex: newLexer(src)}
	p.advance()
	return p
}

func (p *parser) advance() { p.tok = p.lex.next() }

// nextIsDot reports whether the token after the current one is a ".",
// without consuming anything. It disambiguates a step header
// (step_id "." personnel ":" ...) from the next procedure's header
// (name ":" ...) when both start with an identifier.
func (p *parser) nextIsDot() bool {
	saved := *p.lex
	next := p.lex.next()
	*p.lex = saved
	return next.kind == tokDot
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.tok.kind != kind {
		return token{}, badInput("expected %s, got %q", what, p.tok.text)
	}
	t := p.tok
	p.advance()
	return t, nil
}

// parseIdent accepts any identifier-shaped token. ProcLang's grammar
// distinguishes NAME (no leading digit) from NAME_OR_NUMBER (step ids,
// which may be purely numeric); this parser does not enforce that
// distinction since no retrieved ProcLang document exercises it.
func (p *parser) parseIdent(what string) (string, error) {
	if p.tok.kind != tokWord && p.tok.kind != tokNumber {
		return "", badInput("expected %s, got %q", what, p.tok.text)
	}
	text := p.tok.text
	p.advance()
	return text, nil
}

func (p *parser) parseDocument() (*ProcedureSuite, error) {
	suite := &ProcedureSuite{Procedures: make(map[string]*Procedure)}
	for p.tok.kind != tokEOF {
		proc, err := p.parseProcedure()
		if err != nil {
			return nil, err
		}
		if _, exists := suite.Procedures[proc.Name]; exists {
			return nil, badInput("procedure %q defined more than once", proc.Name)
		}
		suite.Procedures[proc.Name] = proc
		if suite.Entry == "" {
			suite.Entry = proc.Name
		}
	}
	if len(suite.Procedures) == 0 {
		return nil, badInput("document contains no procedures")
	}
	return suite, nil
}

func (p *parser) parseProcedure() (*Procedure, error) {
	name, err := p.parseIdent("procedure name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, `":"`); err != nil {
		return nil, err
	}

	var infos []stepInfo
	for (p.tok.kind == tokWord || p.tok.kind == tokNumber) && p.nextIsDot() {
		info, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return nil, badInput("procedure %q has no steps", name)
	}
	return stitchProcedure(name, infos), nil
}

// stepInfo defers a step's final OutConditions until the whole procedure
// has been parsed, since each step's natural-successor transition is
// guarded by the NEXT step's entry condition.
type stepInfo struct {
	id            string
	personnel     string
	conditionIn   Predicate
	action        Action
	conditionsOut []OutCondition
}

func (p *parser) parseStep() (stepInfo, error) {
	id, err := p.parseIdent("step id")
	if err != nil {
		return stepInfo{}, err
	}
	if _, err := p.expect(tokDot, `"."`); err != nil {
		return stepInfo{}, err
	}
	personnel, err := p.parseIdent("personnel")
	if err != nil {
		return stepInfo{}, err
	}
	if _, err := p.expect(tokColon, `":"`); err != nil {
		return stepInfo{}, err
	}

	var conditionIn Predicate = Immediate{}
	if p.tok.kind == tokLBracket {
		conditionIn, err = p.parseCondition()
		if err != nil {
			return stepInfo{}, err
		}
	}

	action, err := p.parseAction()
	if err != nil {
		return stepInfo{}, err
	}

	var outs []OutCondition
	for p.tok.kind == tokMinus {
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return stepInfo{}, err
		}
		trans, err := p.parseTransition()
		if err != nil {
			return stepInfo{}, err
		}
		outs = append(outs, OutCondition{Predicate: cond, Transition: trans})
	}

	return stepInfo{
		id:            id,
		personnel:     personnel,
		conditionIn:   conditionIn,
		action:        action,
		conditionsOut: outs,
	}, nil
}

// stitchProcedure ports the reverse-iteration successor-stitching
// algorithm: walking steps from last to first, each step's own declared
// deviations keep their source order, and a transition to the next step
// is appended last, guarded by that next step's own entry condition (or
// Immediate if it declared none). The last step gets no such transition.
func stitchProcedure(name string, infos []stepInfo) *Procedure {
	steps := make([]ProcedureStep, len(infos))
	var successor *stepInfo
	for i := len(infos) - 1; i >= 0; i-- {
		info := infos[i]
		conditions := append([]OutCondition(nil), info.conditionsOut...)
		if successor != nil {
			conditions = append(conditions, OutCondition{
				Predicate:  successor.conditionIn,
				Transition: Transition{Procedure: name, Step: successor.id},
			})
		}
		steps[i] = ProcedureStep{
			ID:            info.id,
			Personnel:     info.personnel,
			Action:        info.action,
			OutConditions: conditions,
		}
		successor = &infos[i]
	}
	return &Procedure{Name: name, Steps: steps}
}

func (p *parser) parseCondition() (Predicate, error) {
	if _, err := p.expect(tokLBracket, `"["`); err != nil {
		return nil, err
	}
	expr, err := p.parseBooleanExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBracket, `"]"`); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseBooleanExpr() (Predicate, error) {
	first, err := p.parseBooleanExprAnd()
	if err != nil {
		return nil, err
	}
	children := []Predicate{first}
	for p.tok.kind == tokOr {
		p.advance()
		next, err := p.parseBooleanExprAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return Or{Children: children}, nil
}

func (p *parser) parseBooleanExprAnd() (Predicate, error) {
	first, err := p.parseBoolean()
	if err != nil {
		return nil, err
	}
	children := []Predicate{first}
	for p.tok.kind == tokAnd {
		p.advance()
		next, err := p.parseBoolean()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return And{Children: children}, nil
}

func (p *parser) parseBoolean() (Predicate, error) {
	switch p.tok.kind {
	case tokLParen:
		p.advance()
		expr, err := p.parseBooleanExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return expr, nil
	case tokNumber:
		return p.parseWaitFor()
	case tokWord:
		return p.parseComparison()
	default:
		return nil, badInput("expected a condition, got %q", p.tok.text)
	}
}

func (p *parser) parseWaitFor() (Predicate, error) {
	numTok := p.tok
	seconds, err := strconv.ParseFloat(numTok.text, 64)
	if err != nil {
		return nil, badInput("invalid waitfor duration %q", numTok.text)
	}
	p.advance()
	if _, err := p.expect(tokS, `"s"`); err != nil {
		return nil, err
	}
	return WaitFor{DurationMicros: int64(math.Round(seconds * 1e6))}, nil
}

func (p *parser) parseComparison() (Predicate, error) {
	node, err := p.parseIdent("node")
	if err != nil {
		return nil, err
	}
	op, err := p.parseOperator()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokNumber {
		return nil, badInput("expected a numeric comparison value, got %q", p.tok.text)
	}
	value, err := strconv.ParseFloat(p.tok.text, 64)
	if err != nil {
		return nil, badInput("invalid comparison value %q", p.tok.text)
	}
	p.advance()
	return Comparison{Node: node, Op: op, Value: value}, nil
}

func (p *parser) parseOperator() (Op, error) {
	switch p.tok.kind {
	case tokLT:
		p.advance()
		return Less, nil
	case tokGT:
		p.advance()
		return Greater, nil
	case tokLE:
		p.advance()
		return LessEqual, nil
	case tokGE:
		p.advance()
		return GreaterEqual, nil
	case tokEQ:
		p.advance()
		return Equal, nil
	default:
		return 0, badInput("expected a comparison operator, got %q", p.tok.text)
	}
}

func (p *parser) parseTransition() (Transition, error) {
	procedure, err := p.parseIdent("procedure name")
	if err != nil {
		return Transition{}, err
	}
	if _, err := p.expect(tokDot, `"."`); err != nil {
		return Transition{}, err
	}
	step, err := p.parseIdent("step id")
	if err != nil {
		return Transition{}, err
	}
	return Transition{Procedure: procedure, Step: step}, nil
}

// parseAction recognizes "set X to Y" as a StateChangeAction; anything
// else on the current line is a MiscAction carrying that line's raw text.
func (p *parser) parseAction() (Action, error) {
	if p.tok.kind == tokWord && strings.EqualFold(p.tok.text, "set") {
		p.advance()
		component, err := p.parseIdent("component")
		if err != nil {
			return nil, err
		}
		if !(p.tok.kind == tokWord && strings.EqualFold(p.tok.text, "to")) {
			return nil, badInput(`expected "to" in set action, got %q`, p.tok.text)
		}
		p.advance()
		state, err := p.parseIdent("state")
		if err != nil {
			return nil, err
		}
		return StateChangeAction{Component: component, State: state}, nil
	}

	from := p.tok.pos
	text := strings.TrimSpace(p.lex.restOfLine(from))
	p.lex.seekTo(p.lex.lineEnd(from))
	p.advance()
	return MiscAction{Text: text}, nil
}
