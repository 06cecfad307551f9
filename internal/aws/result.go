package aws

// Placeholder is shown for optional fields that are absent in a response
const Placeholder = "N/A"

// Row is one formatted record describing a single cloud resource
type Row []string

// ResultKind tells the three possible enumeration outcomes apart
type ResultKind int

const (
	ResultRows ResultKind = iota
	ResultNotFound
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultRows:
		return "rows"
	case ResultNotFound:
		return "not found"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one enumeration routine: a non-empty row list,
// a "not found" sentinel message, or a classified failure.
type Result struct {
	Kind    ResultKind
	Rows    []Row
	Message string
	Failure *Failure

	// Records optionally carries a structured form of Rows for JSON rendering
	Records []interface{}
}

// Found wraps rows into a Result, turning an empty list into the sentinel
func Found(rows []Row, empty string) Result {
	if len(rows) == 0 {
		return NotFound(empty)
	}
	return Result{Kind: ResultRows, Rows: rows}
}

// NotFound returns the "no results" sentinel with a kind-specific message
func NotFound(message string) Result {
	return Result{Kind: ResultNotFound, Message: message}
}

// Failed classifies err and returns it as a failure result
func Failed(op string, err error) Result {
	return Result{Kind: ResultFailed, Failure: Classify(op, err)}
}

// HasRows reports whether the result is a populated row list
func (r Result) HasRows() bool {
	return r.Kind == ResultRows && len(r.Rows) > 0
}

// String returns the text shown in place of a table
func (r Result) String() string {
	switch r.Kind {
	case ResultNotFound:
		return r.Message
	case ResultFailed:
		if r.Failure != nil {
			return r.Failure.Error()
		}
		return "enumeration failed"
	default:
		return ""
	}
}

// StringValue dereferences p, returning Placeholder for nil or empty strings
func StringValue(p *string) string {
	if p == nil || *p == "" {
		return Placeholder
	}
	return *p
}

// Report is the outcome of one routine, tagged with where it ran
type Report struct {
	Service Service
	Region  string
	Name    string
	Label   string
	Headers []string
	Result  Result
}
