package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	// Prefix is the comment prefix that marks a stamp annotation
	Prefix = "stamp::"
	// Artefact is the sole recognized annotation kind
	Artefact = "artefact"
)

// argumentExpr is the participle grammar for the annotation argument.
// Exactly one of the branches matches; anything else is an unsupported form.
type argumentExpr struct {
	Literal   *string        `parser:"@String"`
	Reference *referenceExpr `parser:"| @@"`
}

type referenceExpr struct {
	Parts []string `parser:"@Ident ('.' @Ident)*"`
}

// Parser parses //stamp::artefact comments into ParsedAnnotations
type Parser struct {
	argument *participle.Parser[argumentExpr]
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[\pL_][\pL\pN_]*`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	argument := participle.MustBuild[argumentExpr](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{argument: argument}
}

// IsAnnotation reports whether a comment line carries a stamp annotation.
// Malformed annotations still count; they fail later with a diagnostic
// instead of being silently skipped.
func IsAnnotation(comment string) bool {
	text := strings.TrimPrefix(strings.TrimSpace(comment), "//")
	return strings.HasPrefix(strings.TrimSpace(text), Prefix)
}

// ParseComment parses a single annotation comment for the given target struct.
// The caller is expected to have filtered comments through IsAnnotation first;
// any error returned here is a genuine syntax diagnostic.
func (p *Parser) ParseComment(comment, target string, location SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimPrefix(strings.TrimSpace(comment), "//")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, Prefix) {
		return nil, fmt.Errorf("not a stamp annotation: %s", comment)
	}
	text = strings.TrimPrefix(text, Prefix)

	kind, rawArgument, _ := strings.Cut(text, " ")
	if kind != Artefact {
		return nil, fmt.Errorf("unknown annotation kind %q (only %q is recognized)", kind, Artefact)
	}

	rawArgument = strings.TrimSpace(rawArgument)
	if rawArgument == "" {
		return nil, fmt.Errorf("artefact annotation requires exactly one argument")
	}

	return &ParsedAnnotation{
		Target:   target,
		Argument: p.parseArgument(rawArgument),
		Location: location,
		Raw:      comment,
	}, nil
}

// parseArgument classifies the argument text. Classification is total: any
// form the grammar rejects becomes ArgumentUnsupported and is reported by the
// resolver with the original text.
func (p *Parser) parseArgument(raw string) ArgumentExpression {
	expr, err := p.argument.ParseString("", raw)
	if err != nil {
		return ArgumentExpression{Kind: ArgumentUnsupported, Raw: raw}
	}

	if expr.Literal != nil {
		value, err := strconv.Unquote(*expr.Literal)
		if err != nil {
			return ArgumentExpression{Kind: ArgumentUnsupported, Raw: raw}
		}
		return ArgumentExpression{Kind: ArgumentLiteral, Value: value, Raw: raw}
	}

	// A reference is a bare constant name or a single package qualifier plus
	// a name. Deeper selector chains are not resolvable declarations.
	switch parts := expr.Reference.Parts; len(parts) {
	case 1:
		return ArgumentExpression{Kind: ArgumentReference, Name: parts[0], Raw: raw}
	case 2:
		return ArgumentExpression{Kind: ArgumentReference, Qualifier: parts[0], Name: parts[1], Raw: raw}
	default:
		return ArgumentExpression{Kind: ArgumentUnsupported, Raw: raw}
	}
}
