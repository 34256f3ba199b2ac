package emitter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Preload renders preload.ts, which exposes window.ipc to renderer
// processes through contextBridge. The bridge forwards untyped arguments;
// window.d.ts carries the types.
type Preload struct {
	targetPath string
	indent     indenter
}

// NewPreload creates the UI bindings artifact.
func NewPreload(cfg *config.ResolvedConfig) *Preload {
	return &Preload{
		targetPath: cfg.PreloadPath,
		indent:     newIndenter(cfg.CodeIndent),
	}
}

func (p *Preload) TargetPath() string {
	return p.targetPath
}

func (p *Preload) RenderEmpty() string {
	return "import { contextBridge } from \"electron\";\n\ncontextBridge.exposeInMainWorld('ipc', {});\n"
}

func (p *Preload) RenderFull(corpus spec.Corpus) string {
	var callables, ports []entry
	var portNames []string

	for _, ch := range channels(corpus) {
		switch ch.Direction {
		case spec.RendererToMain:
			callables = append(callables, p.sender(ch))
		case spec.MainToRenderer:
			callables = append(callables, p.listeners(ch)...)
		case spec.RendererToRenderer:
			portNames = append(portNames, ch.Name)
			ports = append(ports, p.port(ch))
		}
	}

	var b strings.Builder
	b.WriteString("import { contextBridge, ipcRenderer } from \"electron\";\n\n")

	if len(portNames) > 0 {
		b.WriteString("const portTable: Record<string, MessagePort> = {};\n")
		b.WriteString("const portListeners: Record<string, Function[]> = {};\n\n")
		slices.Sort(portNames)
		for _, name := range portNames {
			b.WriteString(p.portReceiver(name))
			b.WriteString("\n")
		}
	}

	b.WriteString("contextBridge.exposeInMainWorld('ipc', {\n")
	writeEntries(&b, callables)
	if len(ports) > 0 {
		b.WriteString(p.indent.at(1) + "ports: {\n")
		writeEntries(&b, ports)
		b.WriteString(p.indent.at(1) + "},\n")
	}
	b.WriteString("});\n")
	return b.String()
}

func (p *Preload) sender(ch spec.ChannelSpec) entry {
	method := "send"
	if ch.Kind == spec.KindUnicast {
		method = "invoke"
	}
	name := "send" + ch.Name
	return entry{
		key: name,
		text: fmt.Sprintf("%s%s: (...args: any[]) => ipcRenderer.%s('%s', ...args),\n",
			p.indent.at(1), name, method, ch.Name),
	}
}

func (p *Preload) listeners(ch spec.ChannelSpec) []entry {
	var result []entry
	for _, name := range ch.ListenerNames() {
		result = append(result, entry{
			key: name,
			text: fmt.Sprintf("%s%s: (callback: Function) => ipcRenderer.on('%s', (_event: any, ...args: any[]) => callback(...args)),\n",
				p.indent.at(1), name, ch.Name),
		})
	}
	return result
}

// portReceiver stores the MessagePort handed over by the main process and
// dispatches its messages to the registered callbacks.
func (p *Preload) portReceiver(name string) string {
	in := p.indent.at
	lines := []string{
		fmt.Sprintf("ipcRenderer.on('%s', (event: any) => {", name),
		in(1) + "const port: MessagePort = event.ports[0];",
		in(1) + fmt.Sprintf("port.onmessage = (message: MessageEvent) => (portListeners['%s'] ?? []).forEach((callback) => callback(...message.data));", name),
		in(1) + fmt.Sprintf("portTable['%s'] = port;", name),
		"});",
	}
	return strings.Join(lines, "\n") + "\n"
}

func (p *Preload) port(ch spec.ChannelSpec) entry {
	in := p.indent.at
	lines := []string{
		in(2) + ch.Name + ": {",
		in(3) + fmt.Sprintf("send: (...args: any[]) => portTable['%s']?.postMessage(args),", ch.Name),
		in(3) + "onMessage: (callback: Function) => {",
		in(4) + fmt.Sprintf("(portListeners['%s'] ??= []).push(callback);", ch.Name),
		in(3) + "},",
		in(2) + "},",
	}
	return entry{key: ch.Name, text: strings.Join(lines, "\n") + "\n"}
}
