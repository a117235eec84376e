package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"

	"reddit-sync/domain/dto"
	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/configuration"
	"reddit-sync/infrastructure/logger"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
}

type userUsecase struct {
	userRepository repository.IUser
}

func NewUserUsecase(userRepository repository.IUser) IUserUsecase {
	return &userUsecase{userRepository: userRepository}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	var res dto.Res
	res.ResponseCode = "401"
	res.ResponseMessage = "Unauthorized"

	user, err := u.userRepository.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("user_name", req.UserName).Warn("login: user not found")
		return res
	}
	hashed := fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	if hashed != user.Password {
		logger.GetLogger().WithField("user_name", req.UserName).Warn("login: password mismatch")
		return res
	}

	now := time.Now()
	claims := model.UserClaims{
		UserName: user.UserName,
		StandardClaims: jwt.StandardClaims{
			Issuer:    strconv.Itoa(user.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configuration.C.App.SecretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("login: signing token failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		return res
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{
		"access_token": signed,
		"user": map[string]interface{}{
			"id":        user.ID,
			"name":      user.Name,
			"user_name": user.UserName,
		},
	}
	return res
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res

	if _, err := u.userRepository.GetByUserName(ctx, req.UserName); err == nil {
		res.ResponseCode = "409"
		res.ResponseMessage = "Username already taken"
		return res
	}

	user := model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Password: req.Password, // already hashed by the handler
	}
	if err := u.userRepository.CreateUser(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("register: create user failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		return res
	}

	res.ResponseCode = "201"
	res.ResponseMessage = "Created"
	return res
}
