package emitter

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/imports"
	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Ambient renders window.d.ts, the global declaration of the window.ipc
// object installed by preload.ts. Unicast senders are always awaitable
// because ipcRenderer.invoke returns a promise.
type Ambient struct {
	targetPath string
	indent     indenter
	nodeNext   bool
}

// NewAmbient creates the ambient types artifact.
func NewAmbient(cfg *config.ResolvedConfig) *Ambient {
	return &Ambient{
		targetPath: cfg.WindowTypesPath,
		indent:     newIndenter(cfg.CodeIndent),
		nodeNext:   cfg.NodeNext,
	}
}

func (a *Ambient) TargetPath() string {
	return a.targetPath
}

func (a *Ambient) RenderEmpty() string {
	return "export {};\n\ndeclare global {\n" + a.indent.at(1) + "interface Window {}\n}\n"
}

func (a *Ambient) RenderFull(corpus spec.Corpus) string {
	resolver := imports.NewResolver(a.targetPath, a.nodeNext)

	var members, ports []entry
	for _, ch := range channels(corpus) {
		switch ch.Direction {
		case spec.RendererToMain:
			members = append(members, a.sender(ch))
		case spec.MainToRenderer:
			members = append(members, a.listeners(ch)...)
		case spec.RendererToRenderer:
			ports = append(ports, a.port(ch))
		}
	}

	var b strings.Builder
	if lines := resolver.Declarations(corpus, nil); len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}

	in := a.indent.at
	b.WriteString("export {};\n\n")
	b.WriteString("declare global {\n")
	b.WriteString(in(1) + "interface Window {\n")
	b.WriteString(in(2) + "ipc: {\n")
	writeEntries(&b, members)
	if len(ports) > 0 {
		b.WriteString(in(3) + "ports: {\n")
		writeEntries(&b, ports)
		b.WriteString(in(3) + "};\n")
	}
	b.WriteString(in(2) + "};\n")
	b.WriteString(in(1) + "}\n")
	b.WriteString("}\n")
	return b.String()
}

func (a *Ambient) sender(ch spec.ChannelSpec) entry {
	// Broadcast senders go through ipcRenderer.send, which returns nothing.
	ret := "void"
	if ch.Kind == spec.KindUnicast {
		ret = awaitable(ch.Signature)
	}
	name := "send" + ch.Name
	return entry{
		key:  name,
		text: fmt.Sprintf("%s%s: %s => %s;\n", a.indent.at(3), name, paramClause(ch.Signature), ret),
	}
}

func (a *Ambient) listeners(ch spec.ChannelSpec) []entry {
	callbackType := fmt.Sprintf("%s => %s", paramClause(ch.Signature), returnType(ch.Signature))

	var result []entry
	for _, name := range ch.ListenerNames() {
		result = append(result, entry{
			key:  name,
			text: fmt.Sprintf("%s%s: (callback: %s) => void;\n", a.indent.at(3), name, callbackType),
		})
	}
	return result
}

func (a *Ambient) port(ch spec.ChannelSpec) entry {
	in := a.indent.at
	params := paramClause(ch.Signature)
	lines := []string{
		in(4) + ch.Name + ": {",
		in(5) + fmt.Sprintf("send: %s => void;", params),
		in(5) + fmt.Sprintf("onMessage: (callback: %s => void) => void;", params),
		in(4) + "};",
	}
	return entry{key: ch.Name, text: strings.Join(lines, "\n") + "\n"}
}
