package template

import (
	"text/template"
	"text/template/parse"
)

// withMissingFields 复制字段值，并为模板引用但未提供的字段补空串
//
// 缺失的顶层字段渲染为空文本，条件判断为假；嵌套引用如 .db.url 补成嵌套 map。
// 已提供的值不做任何修改。
func withMissingFields(tmpl *template.Template, fields FieldValues) map[string]interface{} {
	data := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		data[k] = v
	}

	filled := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			walkFields(t.Tree.Root, func(idents []string) {
				fillPath(data, filled, idents)
			})
		}
	}
	return data
}

// walkFields 遍历语法树，对每个以 . 或 $ 开头的字段引用调用 fn
func walkFields(node parse.Node, fn func(idents []string)) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			walkFields(child, fn)
		}
	case *parse.ActionNode:
		walkFields(n.Pipe, fn)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			walkFields(cmd, fn)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			walkFields(arg, fn)
		}
	case *parse.ChainNode:
		walkFields(n.Node, fn)
	case *parse.FieldNode:
		fn(n.Ident)
	case *parse.VariableNode:
		if len(n.Ident) > 1 && n.Ident[0] == "$" {
			fn(n.Ident[1:])
		}
	case *parse.IfNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.TemplateNode:
		walkFields(n.Pipe, fn)
	}
}

func walkBranch(b *parse.BranchNode, fn func(idents []string)) {
	walkFields(b.Pipe, fn)
	walkFields(b.List, fn)
	walkFields(b.ElseList, fn)
}

// fillPath 顶层键只在缺失时补齐，filled 记录由这里创建的键
func fillPath(data map[string]interface{}, filled map[string]bool, idents []string) {
	key := idents[0]
	current, ok := data[key]
	if ok && !filled[key] {
		return
	}

	if len(idents) == 1 {
		if !ok {
			data[key] = ""
			filled[key] = true
		}
		return
	}

	nested, isMap := current.(map[string]interface{})
	if !isMap {
		nested = map[string]interface{}{}
		data[key] = nested
		filled[key] = true
	}

	// 嵌套 map 均由这里创建，可以直接修改
	for i, ident := range idents[1:] {
		last := i == len(idents)-2
		next, exists := nested[ident]
		if last {
			if !exists {
				nested[ident] = ""
			}
			return
		}
		child, isMap := next.(map[string]interface{})
		if !isMap {
			child = map[string]interface{}{}
			nested[ident] = child
		}
		nested = child
	}
}
