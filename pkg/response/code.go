package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户档案模块错误 100xx
	ErrProfileNotFound     = 10001
	ErrProfileExists       = 10002
	ErrInsufficientBalance = 10003
	ErrTokenInvalid        = 10004
	ErrNoPermission        = 10005
	ErrNegativeBalance     = 10006

	// 优惠券模块错误 200xx
	ErrCouponNotFound    = 20001
	ErrCouponRedeemed    = 20002
	ErrCouponCategory    = 20003
	ErrCouponInvalid     = 20004
	ErrCouponDuplicate   = 20005
	ErrCouponUnknownKind = 20006

	// 会员等级模块错误 300xx
	ErrMembershipUnavailable = 30001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
