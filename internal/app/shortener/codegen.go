package shortener

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const CodeLength = 6

// CodeGenerator 生成候选短码，唯一性由调用方检查
type CodeGenerator interface {
	Generate() (string, error)
}

// HexGenerator 从 crypto/rand 读取，输出 CodeLength 个小写十六进制字符
type HexGenerator struct{}

func (HexGenerator) Generate() (string, error) {
	buf := make([]byte, (CodeLength+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf)[:CodeLength], nil
}

// GeneratorFunc 把函数适配成 CodeGenerator
type GeneratorFunc func() (string, error)

func (f GeneratorFunc) Generate() (string, error) { return f() }
