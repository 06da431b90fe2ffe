package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otdecode"
	"github.com/npillmayer/otdecode/internal/fontload"
	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.font.opentype": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font file to load (.ttf, .otf or .ttc)")
	index := flag.Int("index", 0, "Font index within a collection")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the OpenType decoder CLI")
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, subtable: -1}
	//
	// load font to use
	if err := intp.loadFont(*fontname, *index); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	file     *fontload.ScalableFont
	coll     *ot.Collection
	font     *ot.Font
	index    int
	repl     *readline.Instance
	table    ot.Table
	subtable int // selected cmap subtable, -1 if none
}

func (intp *Intp) String() string {
	if intp == nil || intp.table == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( table=%s )", intp.table.Self().NameTag()))
	if intp.subtable >= 0 {
		sb.WriteString(fmt.Sprintf(" -> subtable[%d]", intp.subtable))
	}
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	TABLES
	TABLE
	CMAP
	SUBTABLE
	LOOKUP
	COVERED
	HEAD
	NAMES
	COLLECTION
	ERRORS
)

var opMap = map[string]int{
	"quit":       QUIT,
	"help":       HELP,
	"tables":     TABLES,
	"table":      TABLE,
	"cmap":       CMAP,
	"subtable":   SUBTABLE,
	"lookup":     LOOKUP,
	"covered":    COVERED,
	"head":       HEAD,
	"names":      NAMES,
	"collection": COLLECTION,
	"errors":     ERRORS,
}

var opNames = []string{
	"quit",
	"help",
	"tables",
	"table",
	"cmap",
	"subtable",
	"lookup",
	"covered",
	"head",
	"names",
	"collection",
	"errors",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
	}
}

// parseCommand splits a line into steps like "table:cmap", "lookup:U+0041"
// or "quit". Unknown operations are turned into a request for help.
func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.SplitN(step, ":", 2)
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		if code == QUIT {
			return &command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		if command.op[i].arg == "" {
			tracer().Infof("%s", opNames[code])
		} else {
			tracer().Infof("%s: looking for '%s'", opNames[code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:       quitOp,
	HELP:       helpOp,
	TABLES:     tablesOp,
	TABLE:      tableOp,
	CMAP:       cmapOp,
	SUBTABLE:   subtableOp,
	LOOKUP:     lookupOp,
	COVERED:    coveredOp,
	HEAD:       headOp,
	NAMES:      namesOp,
	COLLECTION: collectionOp,
	ERRORS:     errorsOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

// loadFont loads a font file and selects font number index of it.
func (intp *Intp) loadFont(fontname string, index int) (err error) {
	if fontname == "" {
		return errors.New("no font given, use flag -font")
	}
	if intp.file, err = fontload.LoadOpenTypeFont(fontname); err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	if intp.coll, err = otdecode.FromCollection(intp.file.Binary); err != nil {
		tracer().Errorf("cannot decode font %s: %s", fontname, err)
		return err
	}
	if err = intp.selectFont(index); err == nil {
		pterm.Printf("font tables: %v\n", intp.font.TableTags())
	}
	return
}

func (intp *Intp) selectFont(index int) error {
	otf := intp.coll.Font(index)
	if otf == nil {
		return fmt.Errorf("no font with index %d, collection has %d", index, intp.coll.Len())
	}
	intp.font, intp.index = otf, index
	intp.table, intp.subtable = nil, -1
	if family, subfamily := otdecode.FamilyName(otf); family != "" {
		tracer().Infof("selected font %d = %s %s", index, family, subfamily)
	}
	return nil
}

// ----------------------------------------------------------------------

var ErrNoTable = errors.New("no table set")
var ErrNoSubtable = errors.New("no cmap subtable selected")

func (intp *Intp) checkTable() error {
	if intp.table == nil {
		return ErrNoTable
	}
	return nil
}

func (intp *Intp) checkSubtable() (ot.SubtableResult, error) {
	cmap := intp.font.CMap
	if intp.subtable < 0 || cmap == nil || intp.subtable >= len(cmap.Subtables) {
		return ot.SubtableResult{}, ErrNoSubtable
	}
	return cmap.Subtables[intp.subtable], nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
