package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(repository.NewOrderRepository(db), repository.NewMenuRepository(db))
}

func TestOrderTotal(t *testing.T) {
	lines := []models.OrderItem{
		{Quantity: 2, UnitPrice: 12.99},
		{Quantity: 1, UnitPrice: 8.99},
	}
	assert.Equal(t, 34.97, OrderTotal(lines))
	assert.Equal(t, 0.0, OrderTotal(nil))
	assert.Equal(t, 0.3, OrderTotal([]models.OrderItem{{Quantity: 3, UnitPrice: 0.1}}))
}

func TestOrderCreatePricesFromMenu(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()
	user := actorOf(createUser(t, db, "diner", models.RoleCustomer))
	burger := createItem(t, db, "Burger", 12.99, true)
	salad := createItem(t, db, "Salad", 8.99, true)

	table := 4
	order, err := svc.Create(ctx, user, CreateOrderInput{
		Type:        models.OrderTypeDineIn,
		TableNumber: &table,
		Items: []OrderLineInput{
			{MenuItemID: burger.ID, Quantity: 2},
			{MenuItemID: salad.ID, Quantity: 1},
		},
		SpecialRequest: "  no onions ",
	})
	require.NoError(t, err)

	assert.Equal(t, 34.97, order.TotalPrice)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assert.Equal(t, "no onions", order.SpecialRequest)
	assert.Equal(t, "diner", order.User.Name)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 12.99, order.Items[0].UnitPrice)
	assert.Equal(t, "Burger", order.Items[0].MenuItem.Name)

	// later price changes do not touch stored lines
	require.NoError(t, db.Model(&models.MenuItem{}).Where("id = ?", burger.ID).Update("price", 20).Error)
	reloaded, err := svc.Get(ctx, user, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 34.97, reloaded.TotalPrice)
	assert.Equal(t, 12.99, reloaded.Items[0].UnitPrice)
}

func TestOrderCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()
	user := actorOf(createUser(t, db, "diner", models.RoleCustomer))
	item := createItem(t, db, "Soup", 5, true)
	soldOut := createItem(t, db, "Lobster", 40, false)

	badTable := 21
	cases := []struct {
		name string
		in   CreateOrderInput
		kind utils.ErrorKind
	}{
		{"unknown type", CreateOrderInput{Type: "drive-through", Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}}, utils.KindValidation},
		{"dine-in without table", CreateOrderInput{Type: models.OrderTypeDineIn, Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}}, utils.KindValidation},
		{"table out of range", CreateOrderInput{Type: models.OrderTypeDineIn, TableNumber: &badTable, Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}}, utils.KindValidation},
		{"no items", CreateOrderInput{Type: models.OrderTypeTakeaway}, utils.KindValidation},
		{"zero quantity", CreateOrderInput{Type: models.OrderTypeTakeaway, Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 0}}}, utils.KindValidation},
		{"unavailable item", CreateOrderInput{Type: models.OrderTypeTakeaway, Items: []OrderLineInput{{MenuItemID: soldOut.ID, Quantity: 1}}}, utils.KindValidation},
		{"unknown item", CreateOrderInput{Type: models.OrderTypeTakeaway, Items: []OrderLineInput{{MenuItemID: 999, Quantity: 1}}}, utils.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user, tc.in)
			requireKind(t, err, tc.kind)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderTableOnlyForDineIn(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()
	user := actorOf(createUser(t, db, "diner", models.RoleCustomer))
	item := createItem(t, db, "Soup", 5, true)
	lines := []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}

	// a stray table number, even an out-of-range one, is ignored for takeaway
	stray := 42
	takeaway, err := svc.Create(ctx, user, CreateOrderInput{Type: models.OrderTypeTakeaway, TableNumber: &stray, Items: lines})
	require.NoError(t, err)
	assert.Nil(t, takeaway.TableNumber)

	table := 7
	dineIn, err := svc.Create(ctx, user, CreateOrderInput{Type: models.OrderTypeDineIn, TableNumber: &table, Items: lines})
	require.NoError(t, err)
	require.NotNil(t, dineIn.TableNumber)
	assert.Equal(t, 7, *dineIn.TableNumber)
}

func TestOrderVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()
	alice := actorOf(createUser(t, db, "alice", models.RoleCustomer))
	bob := actorOf(createUser(t, db, "bob", models.RoleCustomer))
	staff := actorOf(createUser(t, db, "cook", models.RoleStaff))
	item := createItem(t, db, "Tea", 2.5, true)

	in := CreateOrderInput{Type: models.OrderTypeTakeaway, Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 1}}}
	aliceOrder, err := svc.Create(ctx, alice, in)
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, in)
	require.NoError(t, err)

	own, err := svc.List(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, aliceOrder.ID, own[0].ID)

	all, err := svc.List(ctx, staff, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Get(ctx, bob, aliceOrder.ID)
	requireKind(t, err, utils.KindForbidden)
	_, err = svc.Get(ctx, staff, aliceOrder.ID)
	require.NoError(t, err)

	_, err = svc.List(ctx, staff, "served")
	requireKind(t, err, utils.KindValidation)
}

func TestOrderStatusAndCancel(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()
	alice := actorOf(createUser(t, db, "alice", models.RoleCustomer))
	bob := actorOf(createUser(t, db, "bob", models.RoleCustomer))
	admin := actorOf(createUser(t, db, "boss", models.RoleAdmin))
	item := createItem(t, db, "Tea", 2.5, true)

	in := CreateOrderInput{Type: models.OrderTypeTakeaway, Items: []OrderLineInput{{MenuItemID: item.ID, Quantity: 2}}}
	first, err := svc.Create(ctx, alice, in)
	require.NoError(t, err)
	second, err := svc.Create(ctx, alice, in)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, bob, first.ID)
	requireKind(t, err, utils.KindForbidden)

	cancelled, err := svc.Cancel(ctx, alice, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	ready, err := svc.UpdateStatus(ctx, second.ID, models.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, ready.Status)

	_, err = svc.Cancel(ctx, admin, second.ID)
	requireKind(t, err, utils.KindValidation)

	_, err = svc.UpdateStatus(ctx, second.ID, "served")
	requireKind(t, err, utils.KindValidation)
	_, err = svc.UpdateStatus(ctx, 999, models.OrderStatusReady)
	requireKind(t, err, utils.KindNotFound)

	require.NoError(t, svc.Delete(ctx, second.ID))
	_, err = svc.Get(ctx, admin, second.ID)
	requireKind(t, err, utils.KindNotFound)
	requireKind(t, svc.Delete(ctx, second.ID), utils.KindNotFound)

	var lines int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", second.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}
