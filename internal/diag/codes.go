package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectExpression  Code = 2004
	SynUnclosedParen     Code = 2005
	SynUnclosedBrace     Code = 2006
	SynUnclosedBracket   Code = 2007
	SynInvalidTarget     Code = 2008
	SynExpectBlock       Code = 2009
	SynNestedFn          Code = 2010
	SynDuplicateParam    Code = 2011
	SynUnexpectedTopOnly Code = 2012
	SynBadModulePath     Code = 2013

	// Обфускация
	ObfInfo            Code = 3000
	ObfTargetNotFound  Code = 3001
	ObfUnsupported     Code = 3002
	ObfEncodeSkipped   Code = 3003
	ObfFlattenPassthru Code = 3004
	ObfNameCollision   Code = 3005
	ObfTimings         Code = 3006

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	CfgInvalidValue Code = 5001
	CfgUnknownKey   Code = 5002

	RunError Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexBadEscape:                "Invalid escape sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Missing semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynInvalidTarget:            "Invalid assignment target",
		SynExpectBlock:              "Expected block",
		SynNestedFn:                 "Nested function declaration",
		SynDuplicateParam:           "Duplicate parameter name",
		SynUnexpectedTopOnly:        "Statement allowed only at top level",
		SynBadModulePath:            "Invalid module path",
		ObfInfo:                     "Obfuscation information",
		ObfTargetNotFound:           "Target function not found",
		ObfUnsupported:              "Unsupported construct",
		ObfEncodeSkipped:            "Value left unencoded",
		ObfFlattenPassthru:          "Statement kept atomic during flattening",
		ObfNameCollision:            "Generated name collision avoided",
		ObfTimings:                  "Pipeline timings",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		CfgInvalidValue:             "Invalid configuration value",
		CfgUnknownKey:               "Unknown configuration key",
		RunError:                    "Runtime error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("OBF%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
