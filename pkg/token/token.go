package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// secretKey 是一个全局变量，用于存储服务器在启动时生成的32字节密钥。
// 密钥随进程生成，因此重启会使所有已签发的下载令牌失效；
// 令牌本身的有效期只有一小时，这种失效是可以接受的。
var secretKey []byte

// downloadPayload 定义了需要被签名的数据结构。
// 它被编码进下载链接的令牌部分，在 /files/:token 请求中被还原和验证。
type downloadPayload struct {
	Bucket    string `json:"b"`
	Key       string `json:"k"`
	ExpiresAt int64  `json:"e"`
}

// 令牌验证的失败类别。调用方用它们区分"过期"和"伪造/损坏"。
var (
	ErrTokenExpired = errors.New("下载令牌已过期")
	ErrTokenInvalid = errors.New("下载令牌无效")
)

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

// sign 使用HMAC-SHA256和进程密钥对一段字节签名，返回Base64编码。
func sign(data []byte) string {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// GenerateDownloadToken 为一个存储对象签发一个带过期时间的能力令牌。
// 令牌格式为 base64(payload) + "." + base64(signature)。
func GenerateDownloadToken(bucket, key string, ttl time.Duration) (string, error) {
	payload := downloadPayload{
		Bucket:    bucket,
		Key:       key,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化下载令牌payload")
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	return encodedPayload + "." + sign(payloadBytes), nil
}

// ValidateDownloadToken 验证令牌的签名和有效期，返回它指向的对象位置。
// 签名比较使用 hmac.Equal 进行时间恒定的比较，防止时序攻击。
func ValidateDownloadToken(tok string) (bucket, key string, err error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 2 {
		return "", "", ErrTokenInvalid
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	expected := sign(payloadBytes)
	actual := parts[1]
	if !hmac.Equal([]byte(expected), []byte(actual)) {
		return "", "", ErrTokenInvalid
	}

	var payload downloadPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return "", "", ErrTokenInvalid
	}
	if time.Now().Unix() > payload.ExpiresAt {
		return "", "", ErrTokenExpired
	}

	return payload.Bucket, payload.Key, nil
}
