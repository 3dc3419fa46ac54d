package seed

import (
	"strings"
	"time"

	"security-monitor/entities"
)

type item struct {
	message  string
	typ      entities.NotificationType
	priority entities.Priority
}

var catalogues = map[string][]item{
	"osmarg": {
		{"Cam 05 - Movimento detectado no quintal", entities.TypeMovement, entities.PriorityHigh},
		{"Cam 03 - Ligação perdida na sala", entities.TypeSystem, entities.PriorityMedium},
		{"Cam 01 - Movimento suspeito na entrada", entities.TypeMovement, entities.PriorityHigh},
		{"Sistema de segurança ativado automaticamente", entities.TypeSystem, entities.PriorityNormal},
		{"Cam 02 - Bateria baixa no quarto (15%)", entities.TypeBattery, entities.PriorityMedium},
		{"Acesso autorizado - Porta principal", entities.TypeAccess, entities.PriorityNormal},
		{"Manutenção programada para amanhã às 14h", entities.TypeMaintenance, entities.PriorityLow},
		{"Todas as câmaras online e funcionais", entities.TypeSystem, entities.PriorityNormal},
		{"Tentativa de acesso negado - Porta traseira", entities.TypeAccess, entities.PriorityHigh},
		{"Backup automático concluído com sucesso", entities.TypeSystem, entities.PriorityLow},
	},
	"diogos": {
		{"Cam 04 - Movimento no estacionamento", entities.TypeMovement, entities.PriorityHigh},
		{"Cam 06 - Conexão instável na receção", entities.TypeSystem, entities.PriorityMedium},
		{"Cam 02 - Múltiplas pessoas detectadas", entities.TypeMovement, entities.PriorityHigh},
		{"Sistema de alarme ativado - Modo noturno", entities.TypeSystem, entities.PriorityNormal},
		{"Cam 01 - Bateria crítica (5%) - Substituir", entities.TypeBattery, entities.PriorityHigh},
		{"Acesso negado - Cartão não reconhecido", entities.TypeAccess, entities.PriorityHigh},
		{"Atualização de firmware disponível", entities.TypeMaintenance, entities.PriorityNormal},
		{"Relatório semanal de atividade gerado", entities.TypeSystem, entities.PriorityNormal},
		{"Análise de movimento - Padrão anómalo", entities.TypeMovement, entities.PriorityMedium},
		{"Sincronização com cloud concluída", entities.TypeSystem, entities.PriorityLow},
	},
	"admin": {
		{"Novo utilizador registado no sistema", entities.TypeSystem, entities.PriorityNormal},
		{"Relatório de performance - Sistema estável", entities.TypeSystem, entities.PriorityLow},
		{"Manutenção de servidor agendada", entities.TypeMaintenance, entities.PriorityMedium},
		{"Tentativa de login falhada - IP suspeito", entities.TypeSecurity, entities.PriorityHigh},
		{"Backup completo do sistema realizado", entities.TypeSystem, entities.PriorityNormal},
		{"Atualização de segurança instalada", entities.TypeSystem, entities.PriorityMedium},
		{"Estatísticas mensais disponíveis", entities.TypeSystem, entities.PriorityLow},
		{"Firewall bloqueou 15 tentativas de acesso", entities.TypeSecurity, entities.PriorityMedium},
	},
}

var generic = []item{
	{"Bem-vindo ao sistema de segurança", entities.TypeSystem, entities.PriorityNormal},
	{"Configure as suas preferências", entities.TypeSystem, entities.PriorityLow},
	{"Consulte o manual do utilizador", entities.TypeSystem, entities.PriorityLow},
	{"Sistema configurado com sucesso", entities.TypeSystem, entities.PriorityNormal},
	{"Altere a sua palavra-passe regularmente", entities.TypeSecurity, entities.PriorityMedium},
	{"Contacte o suporte para assistência", entities.TypeSystem, entities.PriorityLow},
}

// NotificationsFor builds the demo notifications of username for a client.
// Usernames match case-insensitively; unknown ones get the generic set.
// Entry i is dated 0+1+...+i hours before now.
func NotificationsFor(username string, clientID uint, now time.Time) []entities.Notification {
	items, ok := catalogues[strings.ToLower(username)]
	if !ok {
		items = generic
	}

	out := make([]entities.Notification, 0, len(items))
	at := now
	for i, it := range items {
		at = at.Add(-time.Duration(i) * time.Hour)
		out = append(out, entities.Notification{
			ClientID:         clientID,
			Message:          it.message,
			NotificationDate: at,
			Type:             it.typ,
			Priority:         it.priority,
			Status:           entities.StatusUnread,
		})
	}
	return out
}
