package parser

import "github.com/udoprog/st/ast"

// File parses items until the end of input.
func (p *Parser) File() (*ast.File, error) {
	file := new(ast.File)
	for {
		eof, err := p.atEOF()
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}
		node, err := p.Item()
		if err != nil {
			return nil, err
		}
		file.Items = append(file.Items, node)
	}
	file.End = p.lexer.Span()
	return file, nil
}

// Item parses one declaration with its attributes and visibility.
func (p *Parser) Item() (ast.Item, error) {
	var head ast.ItemHead
	for p.kind(0) == ast.Pound && p.kind(1) == ast.OpenBracket {
		attr, err := p.attribute()
		if err != nil {
			return nil, err
		}
		head.Attributes = append(head.Attributes, attr)
	}
	if p.kind(0) == ast.Pub {
		head.Pub = p.nextOpt()
	}

	switch p.kind(0) {
	case ast.Fn, ast.Async:
		return item(p.itemFn(head))
	case ast.Mod:
		return item(p.itemMod(head))
	case ast.Use:
		return item(p.itemUse(head))
	case ast.Const:
		return item(p.itemConst(head))
	case ast.Struct:
		return item(p.itemStruct(head))
	case ast.Enum:
		return item(p.itemEnum(head))
	}
	return nil, p.expected("item")
}

func (p *Parser) attribute() (attr ast.Attribute, err error) {
	attr.Pound, err = p.expect(ast.Pound)
	if err != nil {
		return
	}
	attr.Open, err = p.expect(ast.OpenBracket)
	if err != nil {
		return
	}
	attr.Path, err = p.path()
	if err != nil {
		return
	}
	if _, ok := closers[p.kind(0)]; ok {
		var open, close ast.Token
		var inner []ast.Token
		open, inner, close, err = p.delimited()
		if err != nil {
			return
		}
		attr.Input = append(append([]ast.Token{open}, inner...), close)
	}
	attr.Close, err = p.expect(ast.CloseBracket)
	return
}

func (p *Parser) name() (ast.Token, error) {
	if p.kind(0) != ast.Ident {
		return ast.Token{}, p.expected("name")
	}
	return p.next()
}

func isFnArg(kind ast.Kind) bool {
	return kind == ast.Ident || kind == ast.Underscore || kind == ast.Self
}

func isField(kind ast.Kind) bool {
	return kind == ast.Ident
}

func (p *Parser) itemFn(head ast.ItemHead) (*ast.ItemFn, error) {
	ret := &ast.ItemFn{
		ItemHead: head,
	}
	var err error
	if p.kind(0) == ast.Async {
		ret.Async = p.nextOpt()
	}
	if ret.Fn, err = p.expect(ast.Fn); err != nil {
		return nil, err
	}
	if ret.Name, err = p.name(); err != nil {
		return nil, err
	}
	if ret.Open, err = p.expect(ast.OpenParen); err != nil {
		return nil, err
	}
	if ret.Args, err = p.tokenList(ast.CloseParen, "argument", isFnArg); err != nil {
		return nil, err
	}
	if ret.Close, err = p.expect(ast.CloseParen); err != nil {
		return nil, err
	}
	if ret.Body, err = p.block(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Parser) itemMod(head ast.ItemHead) (*ast.ItemMod, error) {
	ret := &ast.ItemMod{
		ItemHead: head,
	}
	var err error
	if ret.Mod, err = p.expect(ast.Mod); err != nil {
		return nil, err
	}
	if ret.Name, err = p.name(); err != nil {
		return nil, err
	}
	switch p.kind(0) {
	case ast.SemiColon:
		ret.Semi = p.nextOpt()
		return ret, nil
	case ast.OpenBrace:
	default:
		return nil, p.expected("`;` or module body")
	}

	body := new(ast.ModBody)
	if body.Open, err = p.next(); err != nil {
		return nil, err
	}
	for p.kind(0) != ast.CloseBrace {
		if eof, err := p.atEOF(); err != nil || eof {
			_, err = p.expect(ast.CloseBrace)
			return nil, err
		}
		node, err := p.Item()
		if err != nil {
			return nil, err
		}
		body.Items = append(body.Items, node)
	}
	if body.Close, err = p.expect(ast.CloseBrace); err != nil {
		return nil, err
	}
	ret.Body = body
	return ret, nil
}

func (p *Parser) itemUse(head ast.ItemHead) (*ast.ItemUse, error) {
	ret := &ast.ItemUse{
		ItemHead: head,
	}
	var err error
	if ret.Use, err = p.expect(ast.Use); err != nil {
		return nil, err
	}
	if ret.Path, err = p.path(); err != nil {
		return nil, err
	}
	if ret.Path.Trailing != nil {
		star, err := p.expect(ast.Star)
		if err != nil {
			return nil, err
		}
		ret.Star = &star
	} else if p.kind(0) == ast.As {
		ret.As = p.nextOpt()
		alias, err := p.name()
		if err != nil {
			return nil, err
		}
		ret.Alias = &alias
	}
	if ret.Semi, err = p.expect(ast.SemiColon); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Parser) itemConst(head ast.ItemHead) (*ast.ItemConst, error) {
	ret := &ast.ItemConst{
		ItemHead: head,
	}
	var err error
	if ret.Const, err = p.expect(ast.Const); err != nil {
		return nil, err
	}
	if ret.Name, err = p.name(); err != nil {
		return nil, err
	}
	if ret.Eq, err = p.expect(ast.Eq); err != nil {
		return nil, err
	}
	if ret.Value, err = p.Expr(); err != nil {
		return nil, err
	}
	if ret.Semi, err = p.expect(ast.SemiColon); err != nil {
		return nil, err
	}
	return ret, nil
}

// structBody parses the fields of a struct or variant, none for a unit body.
func (p *Parser) structBody() (body ast.StructBody, err error) {
	var close ast.Kind
	switch p.kind(0) {
	case ast.OpenParen:
		body.Kind = ast.StructTuple
		close = ast.CloseParen
	case ast.OpenBrace:
		body.Kind = ast.StructNamed
		close = ast.CloseBrace
	default:
		body.Kind = ast.StructUnit
		return
	}
	body.Open = p.nextOpt()
	if body.Fields, err = p.tokenList(close, "field name", isField); err != nil {
		return
	}
	token, err := p.expect(close)
	if err != nil {
		return body, err
	}
	body.Close = &token
	return
}

func (p *Parser) itemStruct(head ast.ItemHead) (*ast.ItemStruct, error) {
	ret := &ast.ItemStruct{
		ItemHead: head,
	}
	var err error
	if ret.Struct, err = p.expect(ast.Struct); err != nil {
		return nil, err
	}
	if ret.Name, err = p.name(); err != nil {
		return nil, err
	}
	if ret.Body, err = p.structBody(); err != nil {
		return nil, err
	}
	if ret.Body.Kind != ast.StructNamed {
		semi, err := p.expect(ast.SemiColon)
		if err != nil {
			return nil, err
		}
		ret.Semi = &semi
	}
	return ret, nil
}

func (p *Parser) variant() (*ast.Variant, error) {
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	body, err := p.structBody()
	if err != nil {
		return nil, err
	}
	return &ast.Variant{
		Name: name,
		Body: body,
	}, nil
}

func (p *Parser) itemEnum(head ast.ItemHead) (*ast.ItemEnum, error) {
	ret := &ast.ItemEnum{
		ItemHead: head,
	}
	var err error
	if ret.Enum, err = p.expect(ast.Enum); err != nil {
		return nil, err
	}
	if ret.Name, err = p.name(); err != nil {
		return nil, err
	}
	if ret.Open, err = p.expect(ast.OpenBrace); err != nil {
		return nil, err
	}
	if ret.Variants, err = punctuated(p, ast.CloseBrace, p.variant); err != nil {
		return nil, err
	}
	if ret.Close, err = p.expect(ast.CloseBrace); err != nil {
		return nil, err
	}
	return ret, nil
}
