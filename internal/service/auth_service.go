package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

// AuthService 校验管理员凭据并签发 JWT。
// 系统只有一个内置管理员账号，凭据来自配置。
type AuthService struct {
	Config *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{Config: cfg}
}

// Login 校验用户名密码，成功返回签名后的令牌。
func (s *AuthService) Login(username, password string) (string, error) {
	admin := s.Config.Admin
	if username != admin.Username {
		return "", util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(username, "admin", s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
}
