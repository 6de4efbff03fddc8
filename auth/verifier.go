package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

var (
	// ErrUnauthorized 令牌缺失、无效或已过期
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSignupFailed 身份服务拒绝创建用户
	ErrSignupFailed = errors.New("signup failed")
)

// Identity 已验证的用户身份
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName 返回用于展示的名称，身份服务未提供时退化为固定值
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return "Unknown User"
}

// Verifier 定义身份验证接口，将Bearer令牌映射为用户身份
type Verifier interface {
	// VerifyToken 验证令牌，无效或过期时返回ErrUnauthorized
	VerifyToken(ctx context.Context, token string) (*Identity, error)

	// Signup 通过身份服务的管理接口创建用户
	Signup(ctx context.Context, email, password, name string) (*Identity, error)
}

// HTTPVerifier 调用外部身份服务的Verifier实现
type HTTPVerifier struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewHTTPVerifier 从环境变量读取身份服务地址和服务密钥
//
//	AUTH_URL          身份服务基础地址
//	AUTH_SERVICE_KEY  服务端密钥，用于管理接口
func NewHTTPVerifier() *HTTPVerifier {
	baseURL := os.Getenv("AUTH_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9999"
	}

	return &HTTPVerifier{
		baseURL:    baseURL,
		serviceKey: os.Getenv("AUTH_SERVICE_KEY"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// providerUser 身份服务返回的用户结构
type providerUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

func (u *providerUser) toIdentity() *Identity {
	return &Identity{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.UserMetadata.Name,
	}
}

// VerifyToken 调用身份服务的用户端点验证令牌
func (v *HTTPVerifier) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("构造身份验证请求失败: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求身份服务失败: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("身份服务返回异常状态: %d", resp.StatusCode)
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("解析身份服务响应失败: %v", err)
	}
	if user.ID == "" {
		return nil, ErrUnauthorized
	}

	return user.toIdentity(), nil
}

// Signup 调用身份服务的管理接口创建用户，邮箱直接确认
func (v *HTTPVerifier) Signup(ctx context.Context, email, password, name string) (*Identity, error) {
	body, err := json.Marshal(map[string]interface{}{
		"email":         email,
		"password":      password,
		"user_metadata": map[string]string{"name": name},
		"email_confirm": true, // 未配置邮件服务，直接确认
	})
	if err != nil {
		return nil, fmt.Errorf("序列化注册请求失败: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/auth/v1/admin/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造注册请求失败: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.serviceKey)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求身份服务失败: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: 身份服务返回状态 %d", ErrSignupFailed, resp.StatusCode)
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("解析注册响应失败: %v", err)
	}

	return user.toIdentity(), nil
}
