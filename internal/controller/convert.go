package controller

import (
	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/model"
)

// ==================== 模型转换 ====================

func toAccountResp(a *model.Account) dto.AccountResp {
	return dto.AccountResp{
		ID:        a.ID,
		Username:  a.Username,
		Firstname: a.Firstname,
		Email:     a.Email,
		Role:      string(a.Role),
	}
}

func toProductFields(req *dto.ProductReq) model.ProductFields {
	return model.ProductFields{
		Code:              req.Code,
		Name:              req.Name,
		Description:       req.Description,
		Image:             req.Image,
		Category:          req.Category,
		Price:             req.Price,
		Quantity:          req.Quantity,
		InternalReference: req.InternalReference,
		ShellID:           req.ShellID,
		InventoryStatus:   model.InventoryStatus(req.InventoryStatus),
		Rating:            req.Rating,
	}
}

func toProductResp(p *model.Product) dto.ProductResp {
	return dto.ProductResp{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		Image:             p.Image,
		Category:          p.Category,
		Price:             p.Price,
		Quantity:          p.Quantity,
		InternalReference: p.InternalReference,
		ShellID:           p.ShellID,
		InventoryStatus:   string(p.InventoryStatus),
		Rating:            p.Rating,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toCartItemResp(item *model.CartItem) dto.CartItemResp {
	return dto.CartItemResp{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toWishlistItemResp(item *model.WishlistItem) dto.WishlistItemResp {
	return dto.WishlistItemResp{
		ID:        item.ID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
}
