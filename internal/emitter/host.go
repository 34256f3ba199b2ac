package emitter

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/imports"
	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Host renders main.ts, the bindings used by the Electron main process.
//
// RendererToMain channels become on<Name> registrations on ipcMain,
// MainToRenderer channels become send<Name> senders, and Port channels
// become ports.<Name>.propagate helpers.
type Host struct {
	targetPath string
	indent     indenter
	nodeNext   bool
}

// NewHost creates the host bindings artifact.
func NewHost(cfg *config.ResolvedConfig) *Host {
	return &Host{
		targetPath: cfg.MainPath,
		indent:     newIndenter(cfg.CodeIndent),
		nodeNext:   cfg.NodeNext,
	}
}

func (h *Host) TargetPath() string {
	return h.targetPath
}

func (h *Host) RenderEmpty() string {
	return "export const ipcMain = {};\n"
}

func (h *Host) RenderFull(corpus spec.Corpus) string {
	resolver := imports.NewResolver(h.targetPath, h.nodeNext)
	electronValues := []string{"ipcMain as electronIpcMain"}
	electronTypes := []string{"IpcMainEvent"}

	var callables, ports []entry
	usesWindow, usesPorts := false, false

	for _, ch := range channels(corpus) {
		switch ch.Direction {
		case spec.RendererToMain:
			callables = append(callables, h.listeners(ch)...)
		case spec.MainToRenderer:
			usesWindow = true
			callables = append(callables, h.sender(ch))
		case spec.RendererToRenderer:
			usesWindow, usesPorts = true, true
			ports = append(ports, h.port(ch))
		}
	}
	if usesPorts {
		electronValues = append(electronValues, "MessageChannelMain")
	}
	if usesWindow {
		electronTypes = append(electronTypes, "BrowserWindow")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "import { %s } from \"electron\";\n", strings.Join(electronValues, ", "))
	fmt.Fprintf(&b, "import type { %s } from \"electron\";\n", strings.Join(electronTypes, ", "))
	for _, line := range resolver.Declarations(corpus, hostNeedsTypes) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\nexport const ipcMain = {\n")
	writeEntries(&b, callables)
	if len(ports) > 0 {
		b.WriteString(h.indent.at(1) + "ports: {\n")
		writeEntries(&b, ports)
		b.WriteString(h.indent.at(1) + "},\n")
	}
	b.WriteString("};\n")
	return b.String()
}

// Port propagation is untyped, so Port signatures need no imports here.
func hostNeedsTypes(ch spec.ChannelSpec) bool {
	return ch.Kind != spec.KindPort
}

func (h *Host) listeners(ch spec.ChannelSpec) []entry {
	method := "handle"
	if ch.Kind == spec.KindBroadcast {
		method = "on"
	}
	callbackType := fmt.Sprintf("%s => %s", paramClause(ch.Signature, "event: IpcMainEvent"), returnType(ch.Signature))
	registration := fmt.Sprintf("electronIpcMain.%s('%s', (event: any, ...args: any[]) => (callback as any)(event, ...args))", method, ch.Name)

	var result []entry
	for _, name := range ch.ListenerNames() {
		result = append(result, entry{
			key: name,
			text: fmt.Sprintf("%s%s: (callback: %s) =>\n%s%s,\n",
				h.indent.at(1), name, callbackType, h.indent.at(2), registration),
		})
	}
	return result
}

func (h *Host) sender(ch spec.ChannelSpec) entry {
	name := "send" + ch.Name
	params := paramClause(ch.Signature, "browserWindow: BrowserWindow")
	send := fmt.Sprintf("browserWindow.webContents.send(%s)", argList(ch.Signature.Params, "'"+ch.Name+"'"))
	if ch.Trigger != "" {
		send = fmt.Sprintf("browserWindow.on(\"%s\", () => %s)", ch.Trigger, send)
	}
	return entry{
		key:  name,
		text: fmt.Sprintf("%s%s: %s =>\n%s%s,\n", h.indent.at(1), name, params, h.indent.at(2), send),
	}
}

func (h *Host) port(ch spec.ChannelSpec) entry {
	in := h.indent.at
	lines := []string{
		in(2) + ch.Name + ": {",
		in(3) + "propagate: (bwOne: BrowserWindow, bwTwo: BrowserWindow) => {",
		in(4) + "const { port1, port2 } = new MessageChannelMain();",
		in(4) + "bwOne.once('ready-to-show', () => {",
		in(5) + fmt.Sprintf("bwOne.webContents.postMessage('%s', null, [port1]);", ch.Name),
		in(4) + "});",
		in(4) + "bwTwo.once('ready-to-show', () => {",
		in(5) + fmt.Sprintf("bwTwo.webContents.postMessage('%s', null, [port2]);", ch.Name),
		in(4) + "});",
		in(3) + "},",
		in(2) + "},",
	}
	return entry{key: ch.Name, text: strings.Join(lines, "\n") + "\n"}
}
