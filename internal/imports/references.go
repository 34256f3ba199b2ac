package imports

import "github.com/mvp-joe/ipcgen/internal/spec"

// Reference is a locally declared type used by a channel signature.
type Reference struct {
	File    string
	Channel string
	Type    spec.TypeSpec
}

// UnexportedReferences lists locally declared types that channel signatures
// reference but the module does not export. The generated import of such a
// type would not compile.
func UnexportedReferences(corpus spec.Corpus) []Reference {
	var refs []Reference
	for _, pfs := range corpus {
		seen := make(map[string]bool)
		for _, ch := range pfs.Specs.ChannelSpecs {
			if ch.Signature == nil {
				continue
			}
			for _, customType := range ch.Signature.CustomTypes {
				namespace, name := SplitNamespace(customType)
				if namespace != "" || seen[name] {
					continue
				}
				ts, ok := FindLocalType(pfs, name)
				if !ok || ts.IsExported {
					continue
				}
				seen[name] = true
				refs = append(refs, Reference{File: pfs.RelativePath, Channel: ch.Name, Type: ts})
			}
		}
	}
	return refs
}
