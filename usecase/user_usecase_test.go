package usecase_test

import (
	"context"
	"crypto/md5"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/configuration"
	"reddit-sync/usecase"
)

func TestUserUsecase_Login(t *testing.T) {
	configuration.C.App.SecretKey = "test-secret"

	hashed := fmt.Sprintf("%x", md5.Sum([]byte("password")))
	user := model.User{ID: 1, Name: "Alice", UserName: "alice", Password: hashed}

	t.Run("valid credentials return a token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUserName", mock.Anything, "alice").Return(user, nil).Once()

		uc := usecase.NewUserUsecase(users)
		res := uc.Login(context.Background(), model.ReqLogin{UserName: "alice", Password: "password"})

		assert.Equal(t, "200", res.ResponseCode)
		data, ok := res.Data.(map[string]interface{})
		assert.True(t, ok)
		assert.NotEmpty(t, data["access_token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUserName", mock.Anything, "alice").Return(user, nil).Once()

		uc := usecase.NewUserUsecase(users)
		res := uc.Login(context.Background(), model.ReqLogin{UserName: "alice", Password: "nope"})

		assert.Equal(t, "401", res.ResponseCode)
		assert.Nil(t, res.Data)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUserName", mock.Anything, "ghost").Return(model.User{}, fmt.Errorf("no rows")).Once()

		uc := usecase.NewUserUsecase(users)
		res := uc.Login(context.Background(), model.ReqLogin{UserName: "ghost", Password: "password"})

		assert.Equal(t, "401", res.ResponseCode)
	})
}

func TestUserUsecase_Register(t *testing.T) {
	t.Run("new username", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUserName", mock.Anything, "bob").Return(model.User{}, fmt.Errorf("no rows")).Once()
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.UserName == "bob"
		})).Return(nil).Once()

		uc := usecase.NewUserUsecase(users)
		res := uc.Register(context.Background(), model.ReqRegister{Name: "Bob", UserName: "bob", Password: "hashed"})

		assert.Equal(t, "201", res.ResponseCode)
	})

	t.Run("taken username", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUserName", mock.Anything, "alice").Return(model.User{ID: 1, UserName: "alice"}, nil).Once()

		uc := usecase.NewUserUsecase(users)
		res := uc.Register(context.Background(), model.ReqRegister{Name: "Alice", UserName: "alice", Password: "hashed"})

		assert.Equal(t, "409", res.ResponseCode)
		users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}
