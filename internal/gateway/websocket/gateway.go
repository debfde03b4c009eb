// Package websocket 提供事件推送网关
// 消费事件代理的聊天事件，按收件人扇出到在线的 WebSocket 连接。
// 推送是尽力而为：真实状态以数据库为准，客户端拉取兜底
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"project_chat_server/internal/infrastructure/mq"
	"project_chat_server/pkg/constants"
)

// Client 单个在线连接
type Client struct {
	Conn *websocket.Conn
	Uuid string
	Send chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 鉴权在 JWT 中间件完成，这里不再校验 Origin
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PresenceFunc 连接建立/断开时的在线状态回调
type PresenceFunc func(userId string, online bool)

// Gateway 事件推送网关
// 每个用户至多一条注册连接，重复注册顶掉旧连接
type Gateway struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	broker   mq.EventBroker
	presence PresenceFunc
}

// gateway 全局网关实例
var gateway *Gateway

// Init 创建全局网关并启动事件消费
// presence 回调可为 nil
func Init(broker mq.EventBroker, presence PresenceFunc) {
	gateway = &Gateway{
		clients:  make(map[string]*Client),
		broker:   broker,
		presence: presence,
	}
	go gateway.dispatchLoop()
}

// GetGateway 获取全局网关实例
func GetGateway() *Gateway {
	return gateway
}

// Register 将 HTTP 连接升级为 WebSocket 并注册到网关
// userId 来自已验证的请求身份
func (g *Gateway) Register(c *gin.Context, userId string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("websocket upgrade error", zap.Error(err))
		return
	}

	client := &Client{
		Conn: conn,
		Uuid: userId,
		Send: make(chan []byte, constants.CHANNEL_SIZE),
	}

	g.mu.Lock()
	if old, ok := g.clients[userId]; ok {
		// 同一用户重复连接，顶掉旧连接
		close(old.Send)
		_ = old.Conn.Close()
	}
	g.clients[userId] = client
	g.mu.Unlock()

	if g.presence != nil {
		g.presence(userId, true)
	}

	go client.writePump()
	go g.readPump(client)
	zap.L().Info("websocket client registered", zap.String("user_uuid", userId))
}

// unregister 移除连接并上报离线
func (g *Gateway) unregister(client *Client) {
	g.mu.Lock()
	if cur, ok := g.clients[client.Uuid]; ok && cur == client {
		delete(g.clients, client.Uuid)
		close(client.Send)
	}
	g.mu.Unlock()

	_ = client.Conn.Close()
	if g.presence != nil {
		g.presence(client.Uuid, false)
	}
}

// readPump 读取循环
// 网关只做服务端推送，入站数据丢弃；读取错误即视为断开
func (g *Gateway) readPump(client *Client) {
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			g.unregister(client)
			return
		}
	}
}

// writePump 把 Send 通道的数据写到连接
func (c *Client) writePump() {
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			zap.L().Error("websocket write error", zap.Error(err), zap.String("user_uuid", c.Uuid))
			return
		}
	}
}

// dispatchLoop 消费事件并按收件人扇出
// 网关不区分免打扰：免打扰只抑制外部通知，不抑制实时同步
func (g *Gateway) dispatchLoop() {
	for event := range g.broker.Events() {
		data, err := json.Marshal(event)
		if err != nil {
			zap.L().Error("marshal event error", zap.Error(err))
			continue
		}

		g.mu.RLock()
		for _, userId := range event.Recipients {
			client, ok := g.clients[userId]
			if !ok {
				continue
			}
			select {
			case client.Send <- data:
			default:
				zap.L().Warn("client send buffer full, dropping event",
					zap.String("user_uuid", userId), zap.String("type", event.Type))
			}
		}
		g.mu.RUnlock()
	}
}
