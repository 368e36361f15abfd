package route

import (
	"strings"
)

type nodeType uint8

const (
	static   nodeType = iota // 静态节点
	root                     // 根节点
	param                    // 参数节点，如 :id
	catchAll                 // 通配符节点，如 *filepath
)

// Node 路由树节点，每个 HTTP 方法一棵树
type Node struct {
	part      string           // 本节点对应的路径段
	indices   map[string]*Node // 静态子节点索引
	children  []*Node          // 参数与通配符子节点
	pattern   string           // 终止节点保存注册时的规范化路径
	nType     nodeType
	paramName string // :id → id；*filepath → filepath
}

// NewTree 创建根节点
func NewTree() *Node {
	return &Node{
		indices: make(map[string]*Node),
		nType:   root,
	}
}

// Insert 注册路径，返回规范化后的路径作为处理器的查找键。
// 通配符段之后的内容会被忽略。
func (n *Node) Insert(path string) string {
	if n == nil {
		return ""
	}

	parts := splitPath(path)
	current := n
	used := make([]string, 0, len(parts))

	for _, part := range parts {
		used = append(used, part)
		child := current.child(part)
		if child == nil {
			child = &Node{
				part:    part,
				indices: make(map[string]*Node),
				nType:   static,
			}
			switch part[0] {
			case ':':
				child.nType = param
				child.paramName = part[1:]
			case '*':
				child.nType = catchAll
				child.paramName = part[1:]
			}
			current.addChild(child)
		}
		current = child
		if current.nType == catchAll {
			break
		}
	}

	current.pattern = "/" + strings.Join(used, "/")
	return current.pattern
}

// child 按原始写法查找已有子节点
func (n *Node) child(part string) *Node {
	if c, ok := n.indices[part]; ok {
		return c
	}
	for _, c := range n.children {
		if c.part == part {
			return c
		}
	}
	return nil
}

func (n *Node) addChild(child *Node) {
	if child.nType == static {
		n.indices[child.part] = child
		return
	}
	n.children = append(n.children, child)
}

// Lookup 查找路径，优先静态，其次参数，最后通配符。
// 未命中时返回空字符串。
func (n *Node) Lookup(path string) (string, map[string]string) {
	if n == nil {
		return "", nil
	}
	params := make(map[string]string)
	if node := n.match(splitPath(path), params); node != nil {
		return node.pattern, params
	}
	return "", nil
}

func (n *Node) match(parts []string, params map[string]string) *Node {
	if len(parts) == 0 {
		if n.pattern != "" {
			return n
		}
		// "/files/" 也能命中 "/files/*filepath"
		for _, c := range n.children {
			if c.nType == catchAll && c.pattern != "" {
				params[c.paramName] = ""
				return c
			}
		}
		return nil
	}

	part := parts[0]
	if c, ok := n.indices[part]; ok {
		if found := c.match(parts[1:], params); found != nil {
			return found
		}
	}

	for _, c := range n.children {
		if c.nType != param {
			continue
		}
		if found := c.match(parts[1:], params); found != nil {
			params[c.paramName] = part
			return found
		}
	}

	for _, c := range n.children {
		if c.nType == catchAll && c.pattern != "" {
			params[c.paramName] = strings.Join(parts, "/")
			return c
		}
	}
	return nil
}

// splitPath 分割路径，忽略空段
func splitPath(path string) []string {
	fields := strings.Split(path, "/")
	parts := fields[:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return parts
}
