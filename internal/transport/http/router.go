package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/handlers"
	"github.com/wsprbooks/bookstore/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	BookHandler     *handlers.BookHandler
	SearchHandler   *handlers.SearchHandler
	CartHandler     *handlers.CartHandler
	FavoriteHandler *handlers.FavoriteHandler
	EventHandler    *handlers.EventHandler
	OrderHandler    *handlers.OrderHandler
	ReportHandler   *handlers.ReportHandler
	TokenService    *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/signup", d.AuthHandler.Signup)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/getallbooks", d.BookHandler.GetAllBooks)
	v1.GET("/getrecentbooks", d.BookHandler.GetRecentBooks)
	v1.GET("/getbookdetails/:id", d.BookHandler.GetBookDetails)
	v1.GET("/booksbygenre", d.BookHandler.BooksByGenre)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/markbestsellers", d.ReportHandler.BestSellers)

	v1.GET("/todaysales", d.ReportHandler.TodaySales)
	v1.GET("/todayorders", d.ReportHandler.TodayOrders)
	v1.GET("/weeklysales", d.ReportHandler.WeeklySales)
	v1.GET("/monthlysales", d.ReportHandler.MonthlySales)
	v1.GET("/yearlysales", d.ReportHandler.YearlySales)

	v1.GET("/allevents", d.EventHandler.GetAllEvents)
	v1.GET("/eventdetails/:id", d.EventHandler.GetEventDetails)

	v1.GET("/getallusers", d.UserHandler.GetAllUsers)

	user := v1.Group("", d.TokenService.RequireUser)

	user.GET("/getuserinfo", d.UserHandler.GetUserInfo)
	user.PUT("/updateuserinfo", d.UserHandler.UpdateUserInfo)
	user.PUT("/updatepassword", d.UserHandler.UpdatePassword)

	user.PUT("/addbooktocart", d.CartHandler.AddToCart)
	user.PUT("/removebookfromcart", d.CartHandler.RemoveFromCart)
	user.GET("/getusercart", d.CartHandler.GetCart)

	user.PUT("/addbooktofav", d.FavoriteHandler.AddToFavorites)
	user.PUT("/removebookfromfav", d.FavoriteHandler.RemoveFromFavorites)
	user.GET("/favourites", d.FavoriteHandler.GetFavorites)

	user.POST("/placeorder", d.OrderHandler.PlaceOrder)
	user.POST("/cardpayment", d.OrderHandler.CardPayment)
	user.POST("/bkashpayment", d.OrderHandler.BkashPayment)
	user.GET("/orderhistory", d.OrderHandler.OrderHistory)
	user.GET("/invoice", d.OrderHandler.Invoice)
	user.GET("/invoice/timestamp/:ts", d.OrderHandler.InvoiceByTimestamp)

	admin := v1.Group("", d.TokenService.RequireAdmin)

	admin.POST("/addbook", d.BookHandler.AddBook)
	admin.PUT("/updatebook/:id", d.BookHandler.UpdateBook)
	admin.DELETE("/deletebook/:id", d.BookHandler.DeleteBook)

	admin.POST("/addevent", d.EventHandler.AddEvent)
	admin.PUT("/updateevent/:id", d.EventHandler.UpdateEvent)
	admin.DELETE("/deleteevent/:id", d.EventHandler.DeleteEvent)

	admin.GET("/allorders", d.OrderHandler.AllOrders)
	admin.PUT("/orders/status", d.OrderHandler.UpdateStatus)
}
