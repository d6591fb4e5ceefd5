package eval

// PrintEnv is a stand-in for an interactive interpreter's configuration
// surface. Snippets that adjust print settings, register printers or inspect
// command-line arguments must not fail, but none of those operations may
// have a real effect either: no output channel is opened and the event loop
// never blocks. Property writes are kept so they read back; everything
// method-shaped is an accepted no-op.
type PrintEnv struct {
	PrintWidth            int
	PrintDepth            int
	PrintLength           int
	ShowDeclarationValues bool
	Args                  []string

	printers     []any
	transformers []any
}

// NewPrintEnv returns a shim with conventional interactive defaults.
func NewPrintEnv() *PrintEnv {
	return &PrintEnv{
		PrintWidth:            78,
		PrintDepth:            100,
		PrintLength:           128,
		ShowDeclarationValues: true,
		Args:                  []string{"weave"},
	}
}

// AddPrinter accepts and stores a custom printer without ever invoking it.
func (e *PrintEnv) AddPrinter(printer any) {
	e.printers = append(e.printers, printer)
}

// AddPrintTransformer accepts and stores a print transformer without ever
// invoking it.
func (e *PrintEnv) AddPrintTransformer(transformer any) {
	e.transformers = append(e.transformers, transformer)
}

// CommandLineArgs reports the arguments a snippet would see interactively.
func (e *PrintEnv) CommandLineArgs() []string {
	return e.Args
}

// Run satisfies event-loop-shaped calls by returning immediately.
func (e *PrintEnv) Run() {}

// ScheduleRestart is accepted and ignored.
func (e *PrintEnv) ScheduleRestart() {}
