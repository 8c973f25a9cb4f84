package identifier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// alphabet 是生成匿名存储键时使用的62个字母数字符号。
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	// KeyLength 是扩展名之前的随机部分的固定长度。
	KeyLength = 10

	// Extension 是所有归档对象统一使用的扩展名。
	Extension = ".docx"
)

// NewDocumentKey 生成一个新的匿名归档键：10位均匀分布的字母数字字符加固定扩展名。
// 键空间为62^10，重复概率可以忽略不计，因此不对归档桶做存在性检查。
// 这是一个有意接受的风险，而非唯一性保证。
func NewDocumentKey() (string, error) {
	buf := make([]byte, KeyLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("无法生成随机归档键: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf) + Extension, nil
}
