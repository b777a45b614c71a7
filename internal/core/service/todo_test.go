package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	"todolist/internal/core/service"
	. "todolist/pkg/test"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service  *service.TodoService
	TodoRepo port.TodoRepository
}

var ctx = context.Background()

func (s *TodoServiceTestSuite) SetupTest() {
	db := SetupTestDB(s.T())

	s.TodoRepo = repository.NewTodoRepository(db, nil)
	s.Service = service.NewTodoService(s.TodoRepo, nil)
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) create(value string) domain.Todo {
	todo, err := s.Service.Create(ctx, value)
	s.Require().NoError(err)

	return todo
}

func (s *TodoServiceTestSuite) orders() map[string]int {
	todos, err := s.Service.List(ctx)
	s.Require().NoError(err)

	orders := make(map[string]int, len(todos))
	for _, todo := range todos {
		orders[todo.Value] = todo.Order
	}

	return orders
}

func boolPtr(b bool) *bool {
	return &b
}

func (s *TodoServiceTestSuite) TestCreate_FirstTodoGetsOrderOne() {
	todo := s.create("buy milk")

	Expect(todo.ID).ToNot(BeEmpty())
	Expect(todo.Value).To(Equal("buy milk"))
	Expect(todo.Order).To(Equal(1))
	Expect(todo.DoneAt).To(BeNil())
}

func (s *TodoServiceTestSuite) TestCreate_IncrementsMaxOrder() {
	s.create("buy milk")
	second := s.create("walk dog")

	Expect(second.Order).To(Equal(2))
}

func (s *TodoServiceTestSuite) TestCreate_UsesMaxNotCount() {
	first := s.create("a")
	s.create("b")

	Expect(s.Service.Update(ctx, first.ID, domain.TodoPatch{Order: 10})).To(Succeed())

	third := s.create("c")

	Expect(third.Order).To(Equal(11))
}

func (s *TodoServiceTestSuite) TestList_Empty() {
	todos, err := s.Service.List(ctx)

	Expect(err).To(BeNil())
	Expect(todos).ToNot(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestList_SortedByOrderDesc() {
	s.create("a")
	s.create("b")
	s.create("c")

	todos, err := s.Service.List(ctx)

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(3))

	for i := 1; i < len(todos); i++ {
		Expect(todos[i-1].Order).To(BeNumerically(">", todos[i].Order))
	}

	Expect(todos[0].Value).To(Equal("c"))
}

func (s *TodoServiceTestSuite) TestUpdate_SwapsOrderWithHolder() {
	milk := s.create("buy milk")
	s.create("walk dog")
	s.create("read book")

	err := s.Service.Update(ctx, milk.ID, domain.TodoPatch{Order: 2})

	Expect(err).To(BeNil())
	Expect(s.orders()).To(Equal(map[string]int{
		"buy milk":  2,
		"walk dog":  1,
		"read book": 3,
	}))
}

func (s *TodoServiceTestSuite) TestUpdate_OrderToFreeSlot() {
	milk := s.create("buy milk")
	s.create("walk dog")

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Order: 7})).To(Succeed())

	Expect(s.orders()).To(Equal(map[string]int{
		"buy milk": 7,
		"walk dog": 2,
	}))
}

func (s *TodoServiceTestSuite) TestUpdate_OrderToOwnOrder() {
	milk := s.create("buy milk")
	s.create("walk dog")

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Order: 1})).To(Succeed())

	Expect(s.orders()).To(Equal(map[string]int{
		"buy milk": 1,
		"walk dog": 2,
	}))
}

func (s *TodoServiceTestSuite) TestUpdate_ZeroOrderIsIgnored() {
	milk := s.create("buy milk")

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Order: 0})).To(Succeed())

	found, _ := s.TodoRepo.FindByID(ctx, milk.ID)
	Expect(found.Order).To(Equal(1))
}

func (s *TodoServiceTestSuite) TestUpdate_Value() {
	milk := s.create("buy milk")

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Value: "buy oat milk"})).To(Succeed())

	found, _ := s.TodoRepo.FindByID(ctx, milk.ID)
	Expect(found.Value).To(Equal("buy oat milk"))
	Expect(found.Order).To(Equal(1))
}

func (s *TodoServiceTestSuite) TestUpdate_EmptyValueIsIgnored() {
	milk := s.create("buy milk")

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Value: ""})).To(Succeed())

	found, _ := s.TodoRepo.FindByID(ctx, milk.ID)
	Expect(found.Value).To(Equal("buy milk"))
}

func (s *TodoServiceTestSuite) TestUpdate_DoneLifecycle() {
	milk := s.create("buy milk")

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Done: boolPtr(true)})).To(Succeed())
	found, _ := s.TodoRepo.FindByID(ctx, milk.ID)
	Expect(found.DoneAt).ToNot(BeNil())

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Value: "buy more milk"})).To(Succeed())
	found, _ = s.TodoRepo.FindByID(ctx, milk.ID)
	Expect(found.DoneAt).ToNot(BeNil())

	Expect(s.Service.Update(ctx, milk.ID, domain.TodoPatch{Done: boolPtr(false)})).To(Succeed())
	found, _ = s.TodoRepo.FindByID(ctx, milk.ID)
	Expect(found.DoneAt).To(BeNil())
}

func (s *TodoServiceTestSuite) TestUpdate_NotFound() {
	err := s.Service.Update(ctx, "missing", domain.TodoPatch{Value: "x"})

	var notFound *domain.NotFoundError
	assert.ErrorAs(s.T(), err, &notFound)
	assert.Equal(s.T(), "missing", notFound.ID)
}

func (s *TodoServiceTestSuite) TestDelete() {
	milk := s.create("buy milk")
	s.create("walk dog")

	Expect(s.Service.Delete(ctx, milk.ID)).To(Succeed())

	todos, _ := s.Service.List(ctx)
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Value).To(Equal("walk dog"))

	assert.ErrorIs(s.T(), s.Service.Delete(ctx, milk.ID), domain.ErrTodoNotFound)
	assert.ErrorIs(s.T(), s.Service.Update(ctx, milk.ID, domain.TodoPatch{Value: "x"}), domain.ErrTodoNotFound)
}

func (s *TodoServiceTestSuite) TestHealth() {
	Expect(s.Service.Health(ctx)).To(Succeed())
}

// failingRepository fails every call with the configured error.
type failingRepository struct {
	port.TodoRepository
	err error
}

func (r *failingRepository) FindTopByOrder(ctx context.Context) (*domain.Todo, error) {
	return nil, r.err
}

func (r *failingRepository) FindAllByOrderDesc(ctx context.Context) ([]domain.Todo, error) {
	return nil, r.err
}

func (r *failingRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	return nil, r.err
}

func TestTodoService_PropagatesStorageErrors(t *testing.T) {
	RegisterTestingT(t)

	storageErr := domain.NewStorageError("query", errors.New("disk I/O error"))
	svc := service.NewTodoService(&failingRepository{err: storageErr}, nil)

	_, err := svc.Create(ctx, "x")
	Expect(err).To(MatchError(storageErr))

	_, err = svc.List(ctx)
	Expect(err).To(MatchError(storageErr))

	Expect(svc.Update(ctx, "id", domain.TodoPatch{})).To(MatchError(storageErr))
	Expect(svc.Delete(ctx, "id")).To(MatchError(storageErr))
}
