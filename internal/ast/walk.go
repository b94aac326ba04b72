package ast

// Visitor is called once per node during Walk; returning false stops
// descent into that node's children (but siblings continue).
type Visitor func(n Node) bool

// Walk performs a pre-order traversal of the CHTL AST.
func Walk(n Node, visit Visitor) {
	if n == nil || !visit(n) {
		return
	}
	switch v := n.(type) {
	case *Document:
		walkAll(v.Children, visit)
	case *Element:
		for _, a := range v.Attrs {
			Walk(a, visit)
		}
		walkAll(v.Children, visit)
	case *StyleBlock:
		for _, r := range v.Rules {
			Walk(r, visit)
		}
		for _, p := range v.InlineProps {
			Walk(p, visit)
		}
	case *StyleRule:
		for _, p := range v.Props {
			Walk(p, visit)
		}
	case *Property:
		if v.Value != nil {
			Walk(v.Value, visit)
		}
	case *TemplateDecl:
		walkAll(v.Body, visit)
	case *CustomDecl:
		walkAll(v.Body, visit)
	case *NamespaceDecl:
		walkAll(v.Members, visit)
	case *ConfigurationDecl:
		for _, e := range v.Entries {
			Walk(e, visit)
		}
		for _, na := range v.Names {
			Walk(na, visit)
		}
		for _, o := range v.Origins {
			Walk(o, visit)
		}
	case *Use:
		if v.Specialization != nil {
			Walk(v.Specialization, visit)
		}
	case *Specialization:
		for _, op := range v.Ops {
			Walk(op, visit)
		}
	case *InsertOp:
		walkAll(v.Payload, visit)
	case *ReplaceOp:
		walkAll(v.Payload, visit)
	case *OverrideOp:
		for _, p := range v.Props {
			Walk(p, visit)
		}
	}
}

func walkAll(nodes []Node, visit Visitor) {
	for _, n := range nodes {
		Walk(n, visit)
	}
}
