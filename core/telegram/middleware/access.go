package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware lets only the admin chat reach next. With AdminID zero
// nobody is admin.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !isAdmin(c, opts.AdminID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

func isAdmin(c tele.Context, adminID int64) bool {
	if adminID == 0 {
		return false
	}
	if chat := c.Chat(); chat != nil && chat.ID == adminID {
		return true
	}
	user := c.Sender()
	return user != nil && user.ID == adminID
}
