package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/ipcgen/internal/spec"
)

// channelCallee is the identifier that opens a channel declaration.
const channelCallee = "Channel"

// typeTagKeyword is the value cast in `signature: type as (...) => R`.
const typeTagKeyword = "type"

// extractChannel matches Channel("<Name>").<Kind>.<Direction>({...}) on an
// expression statement. Any other shape reports false.
func extractChannel(stmt *sitter.Node, source []byte) (spec.ChannelSpec, bool) {
	call := unwrapParens(stmt.NamedChild(0))
	if call == nil || call.Kind() != "call_expression" {
		return spec.ChannelSpec{}, false
	}

	channel, ok := matchChannelChain(call.ChildByFieldName("function"), source)
	if !ok {
		return spec.ChannelSpec{}, false
	}

	for _, arg := range namedChildren(call.ChildByFieldName("arguments")) {
		if arg.Kind() == "object" {
			parseChannelConfig(arg, source, &channel)
			break
		}
	}
	return channel, true
}

// matchChannelChain matches the callee Channel("<Name>").<Kind>.<Direction>.
func matchChannelChain(callee *sitter.Node, source []byte) (spec.ChannelSpec, bool) {
	if callee == nil || callee.Kind() != "member_expression" {
		return spec.ChannelSpec{}, false
	}
	direction, ok := spec.ParseDirection(nodeText(callee.ChildByFieldName("property"), source))
	if !ok {
		return spec.ChannelSpec{}, false
	}

	kindExpr := callee.ChildByFieldName("object")
	if kindExpr == nil || kindExpr.Kind() != "member_expression" {
		return spec.ChannelSpec{}, false
	}
	kind, ok := spec.ParseKind(nodeText(kindExpr.ChildByFieldName("property"), source))
	if !ok {
		return spec.ChannelSpec{}, false
	}

	root := kindExpr.ChildByFieldName("object")
	if root == nil || root.Kind() != "call_expression" {
		return spec.ChannelSpec{}, false
	}
	fn := root.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || nodeText(fn, source) != channelCallee {
		return spec.ChannelSpec{}, false
	}
	args := namedChildren(root.ChildByFieldName("arguments"))
	if len(args) != 1 || args[0].Kind() != "string" {
		return spec.ChannelSpec{}, false
	}

	return spec.ChannelSpec{
		Name:      stringValue(args[0], source),
		Kind:      kind,
		Direction: direction,
	}, true
}

// parseChannelConfig reads the designated properties of the config object.
func parseChannelConfig(obj *sitter.Node, source []byte, channel *spec.ChannelSpec) {
	for _, pair := range namedChildren(obj) {
		if pair.Kind() != "pair" {
			continue
		}
		value := pair.ChildByFieldName("value")
		switch stringValue(pair.ChildByFieldName("key"), source) {
		case "signature":
			channel.Signature = parseSignature(value, source)
		case "listeners":
			channel.Listeners = parseListeners(value, source)
		case "trigger":
			if value != nil && value.Kind() == "string" {
				channel.Trigger = stringValue(value, source)
			}
		}
	}
}

// parseSignature accepts only `type as <function type>`.
func parseSignature(value *sitter.Node, source []byte) *spec.Signature {
	value = unwrapParens(value)
	if value == nil || value.Kind() != "as_expression" {
		return nil
	}
	parts := namedChildren(value)
	if len(parts) != 2 || parts[0].Kind() != "identifier" || nodeText(parts[0], source) != typeTagKeyword {
		return nil
	}
	fn := unwrapParens(parts[1])
	if fn == nil || fn.Kind() != "function_type" {
		return nil
	}
	return parseFunctionType(fn, source)
}

func parseFunctionType(fn *sitter.Node, source []byte) *spec.Signature {
	sig := &spec.Signature{
		Definition: nodeText(fn, source),
		TypeParams: nodeText(findChildByType(fn, "type_parameters"), source),
		Params:     []spec.Param{},
		ReturnType: "void",
	}

	for _, param := range namedChildren(findChildByType(fn, "formal_parameters")) {
		switch param.Kind() {
		case "required_parameter", "optional_parameter":
			sig.Params = append(sig.Params, parseParam(param, source))
		}
	}

	if ret := returnTypeNode(fn); ret != nil {
		sig.ReturnType = nodeText(ret, source)
	}
	sig.Async = strings.HasPrefix(sig.ReturnType, "Promise")
	sig.CustomTypes = collectCustomTypes(fn, source)
	return sig
}

// returnTypeNode finds the type following "=>" in a function type.
func returnTypeNode(fn *sitter.Node) *sitter.Node {
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		return ret
	}
	seenArrow := false
	for i := 0; i < int(fn.ChildCount()); i++ {
		child := fn.Child(uint(i))
		if child == nil {
			continue
		}
		if seenArrow && child.IsNamed() {
			return child
		}
		if child.Kind() == "=>" {
			seenArrow = true
		}
	}
	return nil
}

func parseParam(param *sitter.Node, source []byte) spec.Param {
	p := spec.Param{
		Type:     "any",
		Optional: param.Kind() == "optional_parameter",
	}

	pattern := param.ChildByFieldName("pattern")
	if pattern == nil {
		for _, child := range namedChildren(param) {
			switch child.Kind() {
			case "identifier", "rest_pattern", "object_pattern", "array_pattern", "this":
				pattern = child
			}
			if pattern != nil {
				break
			}
		}
	}
	if pattern != nil && pattern.Kind() == "rest_pattern" {
		p.Rest = true
		p.Optional = false
		pattern = pattern.NamedChild(0)
	}
	p.Name = nodeText(pattern, source)

	if annotation := findChildByType(param, "type_annotation"); annotation != nil {
		if typ := annotation.NamedChild(0); typ != nil {
			p.Type = nodeText(typ, source)
		}
	}
	return p
}

// parseListeners captures the raw tokens of an array literal.
func parseListeners(value *sitter.Node, source []byte) []string {
	if value == nil || value.Kind() != "array" {
		return nil
	}
	listeners := []string{}
	for _, element := range namedChildren(value) {
		switch element.Kind() {
		case "string", "identifier":
			listeners = append(listeners, stringValue(element, source))
		}
	}
	return listeners
}
