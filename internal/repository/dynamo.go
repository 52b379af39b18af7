package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/bigkaa/postgram/internal/domain/model"
	"github.com/bigkaa/postgram/internal/domain/postkey"
)

// Имена атрибутов таблицы DynamoDB.
// user — partition key, id — sort key.
const (
	attrUser   = "user"
	attrID     = "id"
	attrImage  = "image"
	attrLabels = "labels"
)

// DynamoAPI — используемое подмножество методов *dynamodb.Client.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// dynamoItem — отображение записи поста на item DynamoDB.
// Labels хранится как any: в таблице встречаются и список строк,
// и список тегированных значений ({"S": "..."}) из старых записей.
type dynamoItem struct {
	User   string  `dynamodbav:"user"`
	ID     string  `dynamodbav:"id"`
	Title  string  `dynamodbav:"title"`
	Body   string  `dynamodbav:"body"`
	Image  *string `dynamodbav:"image"`
	Labels any     `dynamodbav:"labels"`
}

// DynamoPostRepository — реализация PostRepository поверх DynamoDB.
type DynamoPostRepository struct {
	client   DynamoAPI
	table    string
	pageSize int32
}

// NewDynamoPostRepository создаёт репозиторий постов DynamoDB.
func NewDynamoPostRepository(client DynamoAPI, table string, pageSize int) *DynamoPostRepository {
	return &DynamoPostRepository{
		client:   client,
		table:    table,
		pageSize: int32(pageSize), //nolint:gosec // pageSize ограничен в config (1-1000)
	}
}

// Create записывает новый item с условием attribute_not_exists(id).
func (r *DynamoPostRepository) Create(ctx context.Context, rec *model.PostRecord) error {
	item, err := attributevalue.MarshalMap(toDynamoItem(rec))
	if err != nil {
		return fmt.Errorf("ошибка сериализации поста: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(attrID))).
		Build()
	if err != nil {
		return fmt.Errorf("ошибка построения условия: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка записи поста в DynamoDB: %w", err)
	}
	return nil
}

// Put записывает item безусловно.
func (r *DynamoPostRepository) Put(ctx context.Context, rec *model.PostRecord) error {
	item, err := attributevalue.MarshalMap(toDynamoItem(rec))
	if err != nil {
		return fmt.Errorf("ошибка сериализации поста: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("ошибка записи поста в DynamoDB: %w", err)
	}
	return nil
}

// Get возвращает item по ключу (строго согласованное чтение).
func (r *DynamoPostRepository) Get(ctx context.Context, key postkey.Key) (*model.PostRecord, error) {
	resp, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            dynamoKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения поста из DynamoDB: %w", err)
	}
	if resp.Item == nil {
		return nil, ErrNotFound
	}
	return fromDynamoItem(resp.Item)
}

// QueryPage выполняет Query по partition key владельца и префиксу POST# sort key.
func (r *DynamoPostRepository) QueryPage(ctx context.Context, ownerKey, cursor string) (*Page, error) {
	startKey, err := dynamoStartKey(cursor)
	if err != nil {
		return nil, err
	}

	// В таблице рядом с постами могут лежать записи других типов с тем же partition key
	keyCond := expression.KeyAnd(
		expression.Key(attrUser).Equal(expression.Value(ownerKey)),
		expression.Key(attrID).BeginsWith(postkey.PostPrefix),
	)
	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения условия запроса: %w", err)
	}

	resp, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
		Limit:                     aws.Int32(r.pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса постов владельца в DynamoDB: %w", err)
	}
	return buildDynamoPage(resp.Items, resp.LastEvaluatedKey)
}

// ScanPage выполняет Scan одной страницы таблицы, отбирая только items постов.
func (r *DynamoPostRepository) ScanPage(ctx context.Context, cursor string) (*Page, error) {
	startKey, err := dynamoStartKey(cursor)
	if err != nil {
		return nil, err
	}

	filter := expression.And(
		expression.Name(attrUser).BeginsWith(postkey.OwnerPrefix),
		expression.Name(attrID).BeginsWith(postkey.PostPrefix),
	)
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения фильтра scan: %w", err)
	}

	// Limit ограничивает прочитанные, а не отфильтрованные items:
	// страница может быть пустой при непустом курсоре
	resp, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
		Limit:                     aws.Int32(r.pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка scan таблицы DynamoDB: %w", err)
	}
	return buildDynamoPage(resp.Items, resp.LastEvaluatedKey)
}

// UpdateEnrichment выполняет UpdateItem с условием attribute_exists(id):
// без условия SET создал бы новый частичный item для отсутствующего ключа.
func (r *DynamoPostRepository) UpdateEnrichment(ctx context.Context, key postkey.Key, image string, labels []string) (*model.PostRecord, error) {
	if labels == nil {
		labels = []string{}
	}

	update := expression.
		Set(expression.Name(attrImage), expression.Value(image)).
		Set(expression.Name(attrLabels), expression.Value(labels))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(attrID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения выражения обновления: %w", err)
	}

	resp, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       dynamoKey(key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления поста в DynamoDB: %w", err)
	}
	return fromDynamoItem(resp.Attributes)
}

// Delete удаляет item с условием существования и возвращает старое содержимое.
func (r *DynamoPostRepository) Delete(ctx context.Context, key postkey.Key) (*model.PostRecord, error) {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(attrID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения условия: %w", err)
	}

	resp, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      dynamoKey(key),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
		ReturnValues:             types.ReturnValueAllOld,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка удаления поста из DynamoDB: %w", err)
	}
	return fromDynamoItem(resp.Attributes)
}

// --- Readiness ---

// DynamoReadinessChecker — проверка доступности таблицы DynamoDB.
type DynamoReadinessChecker struct {
	client DynamoAPI
	table  string
}

// NewDynamoReadinessChecker создаёт проверку готовности таблицы.
func NewDynamoReadinessChecker(client DynamoAPI, table string) *DynamoReadinessChecker {
	return &DynamoReadinessChecker{client: client, table: table}
}

// CheckReady выполняет DescribeTable. Таблица в статусе, отличном от ACTIVE, — degraded.
func (c *DynamoReadinessChecker) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(c.table)})
	if err != nil {
		return "fail", fmt.Sprintf("DynamoDB недоступен: %v", err)
	}
	if resp.Table != nil && resp.Table.TableStatus != types.TableStatusActive {
		return "degraded", fmt.Sprintf("таблица %s в статусе %s", c.table, resp.Table.TableStatus)
	}
	return "ok", "таблица доступна"
}

// --- Вспомогательные функции ---

// dynamoKey строит первичный ключ item'а.
func dynamoKey(key postkey.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrUser: &types.AttributeValueMemberS{Value: key.Owner},
		attrID:   &types.AttributeValueMemberS{Value: key.Post},
	}
}

// dynamoStartKey преобразует курсор в ExclusiveStartKey (nil — с начала).
func dynamoStartKey(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}
	key, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	return dynamoKey(key), nil
}

// buildDynamoPage конвертирует items и LastEvaluatedKey в Page.
func buildDynamoPage(items []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) (*Page, error) {
	page := &Page{Items: make([]*model.PostRecord, 0, len(items))}
	for _, item := range items {
		rec, err := fromDynamoItem(item)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, rec)
	}

	if len(lastKey) > 0 {
		var k struct {
			User string `dynamodbav:"user"`
			ID   string `dynamodbav:"id"`
		}
		if err := attributevalue.UnmarshalMap(lastKey, &k); err != nil {
			return nil, fmt.Errorf("ошибка разбора LastEvaluatedKey: %w", err)
		}
		page.Next = encodeCursor(postkey.Key{Owner: k.User, Post: k.ID})
	}
	return page, nil
}

func toDynamoItem(rec *model.PostRecord) dynamoItem {
	labels := rec.RawLabels
	if labels == nil {
		labels = []string{}
	}
	return dynamoItem{
		User:   rec.OwnerKey,
		ID:     rec.PostKey,
		Title:  rec.Title,
		Body:   rec.Body,
		Image:  rec.Image,
		Labels: labels,
	}
}

func fromDynamoItem(item map[string]types.AttributeValue) (*model.PostRecord, error) {
	var it dynamoItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return nil, fmt.Errorf("ошибка десериализации поста: %w", err)
	}
	return &model.PostRecord{
		OwnerKey:  it.User,
		PostKey:   it.ID,
		Title:     it.Title,
		Body:      it.Body,
		Image:     it.Image,
		RawLabels: it.Labels,
	}, nil
}

// isConditionalCheckFailed сообщает, что запрос отклонён условием ConditionExpression.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
