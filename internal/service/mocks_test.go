package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	users  map[int64]*models.User
	nextID int64
	err    error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) add(user *models.User) *models.User {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return user
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return utils.NewDuplicateError("User", "username", user.Username)
		}
	}
	m.add(user)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, utils.NewNotFoundError("User", username)
}

func (m *MockUserRepository) ListByEmail(ctx context.Context, email string) ([]*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := []*models.User{}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) SetPassword(ctx context.Context, id int64, passwordHash, salt string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	return nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.LastLogin = &at
	return nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.users)), nil
}

// MockCategoryRepository is an in-memory CategoryRepository that shares
// product storage with a MockProductRepository.
type MockCategoryRepository struct {
	categories map[int64]*models.Category
	products   *MockProductRepository
	nextID     int64
	err        error
}

func NewMockCatalog() (*MockCategoryRepository, *MockProductRepository) {
	products := &MockProductRepository{products: make(map[int64]*models.Product), nextID: 1}
	categories := &MockCategoryRepository{categories: make(map[int64]*models.Category), products: products, nextID: 1}
	products.categories = categories
	return categories, products
}

func (m *MockCategoryRepository) withProducts(c *models.Category) *models.Category {
	out := *c
	out.Products = []models.Product{}
	list, _ := m.products.ListByCategory(context.Background(), c.ID)
	for _, p := range list {
		out.Products = append(out.Products, *p)
	}
	return &out
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.Category{}
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.categories[id]; ok {
			out = append(out, m.withProducts(c))
		}
	}
	return out, nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, utils.NewNotFoundError("Category", id)
	}
	return m.withProducts(c), nil
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.err != nil {
		return m.err
	}
	category.ID = m.nextID
	m.nextID++
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return utils.NewNotFoundError("Category", category.ID)
	}
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return utils.NewNotFoundError("Category", id)
	}
	for pid, p := range m.products.products {
		if p.CategoryID == id {
			delete(m.products.products, pid)
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.categories[id]
	return ok, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.categories)), nil
}

// MockProductRepository is an in-memory ProductRepository.
type MockProductRepository struct {
	products   map[int64]*models.Product
	categories *MockCategoryRepository
	nextID     int64
	writeErr   error
}

func (m *MockProductRepository) sorted(keep func(*models.Product) bool) []*models.Product {
	out := []*models.Product{}
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.products[id]; ok && keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out
}

func (m *MockProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	return m.sorted(func(*models.Product) bool { return true }), nil
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	return m.sorted(func(p *models.Product) bool { return p.CategoryID == categoryID }), nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, utils.NewNotFoundError("Product", id)
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	product.ID = m.nextID
	m.nextID++
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.products[product.ID]; !ok {
		return utils.NewNotFoundError("Product", product.ID)
	}
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return utils.NewNotFoundError("Product", id)
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

// recordingSender captures sent mail and can be told to fail.
type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// MockJWTService mints predictable tokens.
type MockJWTService struct {
	auth.TokenIssuer
	validateFunc func(token, tokenType string) (*auth.CustomClaims, error)
	generateErr  error
}

func (m *MockJWTService) GenerateAccessToken(user *models.User) (string, string, error) {
	if m.generateErr != nil {
		return "", "", m.generateErr
	}
	return "access-" + user.Username, "jti-a", nil
}

func (m *MockJWTService) GenerateRefreshToken(user *models.User) (string, string, error) {
	if m.generateErr != nil {
		return "", "", m.generateErr
	}
	return "refresh-" + user.Username, "jti-r", nil
}

func (m *MockJWTService) ValidateToken(token, tokenType string) (*auth.CustomClaims, error) {
	if m.validateFunc != nil {
		return m.validateFunc(token, tokenType)
	}
	return nil, utils.NewInvalidTokenError()
}

var errBoom = errors.New("boom")

func fastHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(&auth.PasswordConfig{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

// activeUser stores a user with the given password.
func activeUser(repo *MockUserRepository, username, email, password string) *models.User {
	user := models.NewUser(username, email)
	user.PasswordHash, user.Salt, _ = fastHasher().Hash(password)
	return repo.add(user)
}
