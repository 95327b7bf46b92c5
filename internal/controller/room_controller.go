package controller

import (
	"eduwithme_backend/internal/service"
	"eduwithme_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomService *service.RoomService
}

func NewRoomController(roomService *service.RoomService) *RoomController {
	return &RoomController{RoomService: roomService}
}

type updateRoomRequest struct {
	RoomName string `json:"roomName" binding:"required,max=100"`
}

type entryPrivateRoomRequest struct {
	RoomPassword string `json:"roomPassword" binding:"required"`
}

// @Summary 创建公开房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param room body service.CreateRoomRequest true "房间信息"
// @Success 201 {object} util.Response
// @Router /api/rooms/public [post]
func (c *RoomController) CreatePublicRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	room, err := c.RoomService.CreatePublicRoom(req, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, room)
}

// @Summary 创建私有房间
// @Description 需要提供入场密码
// @Tags 房间
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param room body service.CreateRoomRequest true "房间信息"
// @Success 201 {object} util.Response
// @Router /api/rooms/private [post]
func (c *RoomController) CreatePrivateRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	room, err := c.RoomService.CreatePrivateRoom(req, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, room)
}

// @Summary 房间列表
// @Tags 房间
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/rooms [get]
func (c *RoomController) GetRoomList(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	rooms, total, err := c.RoomService.GetRoomListWithPage(page, size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  rooms,
		Total: total,
		Page:  page,
		Limit: size,
	})
}

// @Summary 我加入的房间
// @Tags 房间
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/rooms/mine [get]
func (c *RoomController) GetMyRooms(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rooms, err := c.RoomService.GetRoomsOfUser(user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rooms)
}

// @Summary 房间详情
// @Tags 房间
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId} [get]
func (c *RoomController) GetRoomDetail(ctx *gin.Context) {
	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	room, err := c.RoomService.GetRoomDetail(roomID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, room)
}

// @Summary 修改房间名
// @Description 仅房主可操作
// @Tags 房间
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId} [put]
func (c *RoomController) UpdateRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	var req updateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.RoomService.UpdateRoom(user.UserID, roomID, req.RoomName); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 删除房间
// @Description 仅房主可操作，级联删除房间内数据
// @Tags 房间
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId} [delete]
func (c *RoomController) DeleteRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	if err := c.RoomService.DeleteRoom(user.UserID, roomID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 入场公开房间
// @Tags 房间
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/entry/public [post]
func (c *RoomController) EntryPublicRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	entry, err := c.RoomService.EntryPublicRoom(roomID, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// @Summary 入场私有房间
// @Description 需要入场密码
// @Tags 房间
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/entry/private [post]
func (c *RoomController) EntryPrivateRoom(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	var req entryPrivateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.RoomService.EntryPrivateRoom(roomID, user.UserID, req.RoomPassword)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entry)
}

// @Summary 房间成员列表
// @Tags 房间
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/users [get]
func (c *RoomController) GetRoomUsers(ctx *gin.Context) {
	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	users, err := c.RoomService.GetRoomUsers(roomID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
